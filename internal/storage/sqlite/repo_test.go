package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	cfg := Config{
		DSN:   filepath.Join(t.TempDir(), "test.db"),
		Table: "flights",
	}
	repo, closeFn, err := NewRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	t.Cleanup(closeFn)

	err = repo.Exec(context.Background(),
		"CREATE TABLE flights (flight_type TEXT, num_stops INTEGER, duration_hours REAL)")
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return repo
}

func countRows(t *testing.T, repo *Repository) int {
	t.Helper()
	var n int
	if err := repo.db.QueryRow("SELECT COUNT(*) FROM flights").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), Config{Table: "t"}); err == nil {
		t.Fatal("NewRepository() with empty DSN should fail")
	}
}

func TestCopyFrom(t *testing.T) {
	repo := testRepo(t)
	columns := []string{"flight_type", "num_stops", "duration_hours"}
	rows := [][]any{
		{"J", 1, 8.5},
		{"F", 2, 14.25},
		{"M", nil, nil},
	}

	n, err := repo.CopyFrom(context.Background(), columns, rows)
	if err != nil {
		t.Fatalf("CopyFrom() error = %v", err)
	}
	if n != 3 {
		t.Errorf("inserted = %d, want 3", n)
	}
	if got := countRows(t, repo); got != 3 {
		t.Errorf("table has %d rows, want 3", got)
	}

	var nulls int
	if err := repo.db.QueryRow("SELECT COUNT(*) FROM flights WHERE num_stops IS NULL").Scan(&nulls); err != nil {
		t.Fatalf("count nulls: %v", err)
	}
	if nulls != 1 {
		t.Errorf("null num_stops rows = %d, want 1", nulls)
	}
}

func TestCopyFrom_Empty(t *testing.T) {
	repo := testRepo(t)
	n, err := repo.CopyFrom(context.Background(), []string{"flight_type"}, nil)
	if err != nil {
		t.Fatalf("CopyFrom() error = %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
}

func TestCopyFrom_RowLengthMismatch(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.CopyFrom(context.Background(),
		[]string{"flight_type", "num_stops"}, [][]any{{"J"}})
	if err == nil {
		t.Fatal("CopyFrom() with a short row should fail")
	}
	if got := countRows(t, repo); got != 0 {
		t.Errorf("failed batch left %d rows, want 0 after rollback", got)
	}
}

func TestTruncate(t *testing.T) {
	repo := testRepo(t)
	columns := []string{"flight_type", "num_stops", "duration_hours"}
	if _, err := repo.CopyFrom(context.Background(), columns, [][]any{{"J", 1, 1.0}}); err != nil {
		t.Fatalf("CopyFrom() error = %v", err)
	}

	if err := repo.Truncate(context.Background()); err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}
	if got := countRows(t, repo); got != 0 {
		t.Errorf("table has %d rows after Truncate(), want 0", got)
	}
}
