package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSessionStorage_LoadMissing(t *testing.T) {
	s := NewSessionStorage(filepath.Join(t.TempDir(), "session.json"))

	payload, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != nil {
		t.Fatalf("expected nil payload, got %q", payload)
	}
}

func TestSessionStorage_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewSessionStorage(path)
	ctx := context.Background()

	if err := s.Save(ctx, []byte(`{"token":"one"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, []byte(`{"token":"two"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	payload, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(payload) != `{"token":"two"}` {
		t.Fatalf("unexpected payload %q", payload)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != filePerm {
		t.Fatalf("expected mode %o, got %o", filePerm, info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, found %d entries", len(entries))
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear should be a no-op, got %v", err)
	}
}

func TestSessionStorage_Ping(t *testing.T) {
	s := NewSessionStorage(filepath.Join(t.TempDir(), "dir", "session.json"))
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
