package storage

import (
	"context"
	"strings"
	"testing"
)

type stubRepo struct{ fakeRepo }

func TestRegisterAndNew(t *testing.T) {
	var gotCfg Config
	Register("stub", func(ctx context.Context, cfg Config) (Repository, error) {
		gotCfg = cfg
		return &stubRepo{}, nil
	})

	cfg := Config{Kind: "stub", DSN: "dsn://x", Table: "t"}
	repo, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if repo == nil {
		t.Fatal("New() returned nil repository")
	}
	if gotCfg != cfg {
		t.Errorf("factory received %+v, want %+v", gotCfg, cfg)
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "no-such-backend"})
	if err == nil {
		t.Fatal("New() with an unregistered kind should fail")
	}
	if !strings.Contains(err.Error(), "no-such-backend") {
		t.Errorf("error = %v, want it to name the kind", err)
	}
}
