package ddl

import (
	"strings"
	"testing"
)

func TestBuildCreateTableSQL(t *testing.T) {
	tests := []struct {
		name    string
		def     TableDef
		want    string
		wantErr string
	}{
		{
			name: "basic table",
			def: TableDef{
				FQN: "public.flights",
				Columns: []ColumnDef{
					{Name: "flight_type", SQLType: "TEXT", Nullable: true},
					{Name: "num_stops", SQLType: "BIGINT", Nullable: true},
				},
			},
			want: "CREATE TABLE IF NOT EXISTS public.flights (\n  flight_type TEXT,\n  num_stops BIGINT\n);",
		},
		{
			name: "not null column",
			def: TableDef{
				FQN:     "t",
				Columns: []ColumnDef{{Name: "id", SQLType: "BIGINT"}},
			},
			want: "CREATE TABLE IF NOT EXISTS t (\n  id BIGINT NOT NULL\n);",
		},
		{
			name:    "empty fqn",
			def:     TableDef{FQN: "  ", Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}},
			wantErr: "FQN",
		},
		{
			name:    "no columns",
			def:     TableDef{FQN: "t"},
			wantErr: "at least one column",
		},
		{
			name:    "empty column name",
			def:     TableDef{FQN: "t", Columns: []ColumnDef{{Name: " ", SQLType: "TEXT"}}},
			wantErr: "empty name",
		},
		{
			name:    "missing type",
			def:     TableDef{FQN: "t", Columns: []ColumnDef{{Name: "a"}}},
			wantErr: "missing SQLType",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := BuildCreateTableSQL(tt.def)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("BuildCreateTableSQL() = %q, want error containing %q", got, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCreateTableSQL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildCreateTableSQL() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}
