package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/speeddial/internal/storage"
)

func TestSQLiteStorage_SetAndGet(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "speeddial.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, map[string][]byte{
		storage.KeyGroups:   []byte(`{"groups":[]}`),
		storage.KeySettings: []byte(`{"columnSize":250}`),
	}); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	values, err := s.Get(ctx, storage.KeyGroups, storage.KeySettings, "missing")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(values[storage.KeyGroups]) != `{"groups":[]}` {
		t.Errorf("unexpected groups value %q", values[storage.KeyGroups])
	}
	if string(values[storage.KeySettings]) != `{"columnSize":250}` {
		t.Errorf("unexpected settings value %q", values[storage.KeySettings])
	}
	if _, ok := values["missing"]; ok {
		t.Error("missing key should be absent")
	}
}

func TestSQLiteStorage_Overwrite(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "overwrite.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, map[string][]byte{"k": []byte(`"original"`)}); err != nil {
		t.Fatalf("failed to save initial: %v", err)
	}
	if err := s.Set(ctx, map[string][]byte{"k": []byte(`"updated"`)}); err != nil {
		t.Fatalf("failed to save updated: %v", err)
	}

	values, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(values["k"]) != `"updated"` {
		t.Errorf("expected updated value, got %q", values["k"])
	}
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	values, err := s.Get(context.Background(), storage.KeyGroups)
	if err != nil {
		t.Fatalf("failed to get from empty db: %v", err)
	}
	if len(values) != 0 {
		t.Error("expected no values")
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "speeddial.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage with nested dir: %v", err)
	}
	defer s.Close()
}

func TestSQLiteStorage_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if err := s.Set(ctx, map[string][]byte{"k": []byte(`1`)}); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	s.Close()

	// Migrations must be idempotent on reopen.
	s, err = storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer s.Close()

	values, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(values["k"]) != "1" {
		t.Errorf("expected persisted value, got %q", values["k"])
	}
}

func TestRepository_RoundTripSQLite(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	testRepositoryRoundTrip(t, s)
}
