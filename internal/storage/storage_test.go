package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/speeddial/internal/model"
	"github.com/nikbrunner/speeddial/internal/storage"
)

func TestJSONStorage_SetAndGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "speeddial.json")

	s := storage.NewJSONStorage(path)
	if err := s.Set(ctx, map[string][]byte{"a": []byte(`{"x":1}`)}); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := s.Set(ctx, map[string][]byte{"b": []byte(`[1,2]`)}); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("storage file was not created")
	}

	values, err := s.Get(ctx, "a", "b", "missing")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
	if _, ok := values["missing"]; ok {
		t.Error("missing key should be absent")
	}
}

func TestJSONStorage_GetNonexistent(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "nonexistent.json"))

	values, err := s.Get(context.Background(), storage.KeyGroups)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if len(values) != 0 {
		t.Error("expected no values for missing file")
	}
}

func TestJSONStorage_RejectsInvalidJSON(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "s.json"))

	err := s.Set(context.Background(), map[string][]byte{"a": []byte("{not json")})
	if err == nil {
		t.Fatal("expected error for invalid JSON value")
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "speeddial.json")
	s := storage.NewJSONStorage(path)

	if err := s.Set(context.Background(), map[string][]byte{"a": []byte("true")}); err != nil {
		t.Fatalf("failed to save with nested dir: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("storage file was not created in nested directory")
	}
}

func TestJSONStorage_FailedRenameRemovesTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speeddial.json")
	s := storage.NewJSONStorage(path)

	boom := errors.New("rename failed")
	restore := storage.SetRename(func(string, string) error { return boom })
	defer restore()

	err := s.Set(context.Background(), map[string][]byte{"a": []byte("true")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected rename error, got %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be removed, stat err: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no storage file, stat err: %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := storage.Open("etcd", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func sampleCollection() *model.Collection {
	return &model.Collection{
		Groups: []model.Group{
			{ID: "g1", Name: "Work", Sites: []model.Site{
				{ID: "s1", Name: "Docs", URL: "https://docs.example.com", Thumbnail: "data:image/jpeg;base64,AAAA"},
				{ID: "s2", Name: "CI", URL: "https://ci.example.com", Thumbnail: "https://icons.example/ci"},
			}},
			{ID: "g2", Name: "Fun", Sites: []model.Site{}},
			{ID: "g3", Name: "News", Sites: []model.Site{
				{ID: "s3", Name: "HN", URL: "https://news.ycombinator.com"},
			}},
		},
	}
}

func testRepositoryRoundTrip(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()
	repo := storage.NewRepository(s)

	want := sampleCollection()
	settings := model.DefaultSettings()
	settings.ColumnSize = 320
	settings.UseThumbnails = true

	if err := repo.SaveGroups(ctx, want); err != nil {
		t.Fatalf("failed to save groups: %v", err)
	}
	if err := repo.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	got, gotSettings, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if gotSettings != settings {
		t.Errorf("settings mismatch: got %+v, want %+v", gotSettings, settings)
	}
	if len(got.Groups) != len(want.Groups) {
		t.Fatalf("expected %d groups, got %d", len(want.Groups), len(got.Groups))
	}
	for i := range want.Groups {
		wg, gg := want.Groups[i], got.Groups[i]
		if wg.ID != gg.ID || wg.Name != gg.Name {
			t.Errorf("group %d: got %s/%s, want %s/%s", i, gg.ID, gg.Name, wg.ID, wg.Name)
		}
		if len(wg.Sites) != len(gg.Sites) {
			t.Fatalf("group %d: expected %d sites, got %d", i, len(wg.Sites), len(gg.Sites))
		}
		for j := range wg.Sites {
			if wg.Sites[j] != gg.Sites[j] {
				t.Errorf("group %d site %d: got %+v, want %+v", i, j, gg.Sites[j], wg.Sites[j])
			}
		}
	}
}

func TestRepository_RoundTripJSON(t *testing.T) {
	testRepositoryRoundTrip(t, storage.NewJSONStorage(filepath.Join(t.TempDir(), "s.json")))
}

func TestRepository_LoadEmpty(t *testing.T) {
	repo := storage.NewRepository(storage.NewJSONStorage(filepath.Join(t.TempDir(), "s.json")))

	collection, settings, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if collection.Groups == nil || len(collection.Groups) != 0 {
		t.Errorf("expected empty non-nil groups, got %v", collection.Groups)
	}
	if settings != model.DefaultSettings() {
		t.Errorf("expected default settings, got %+v", settings)
	}
}

func TestRepository_SettingsDefaultsForMissingKeys(t *testing.T) {
	ctx := context.Background()
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "s.json"))

	// Older schema: no useThumbnails, an obsolete key, and an invalid height.
	raw := []byte(`{"columnSize": 200, "thumbnailHeight": 0, "theme": "dark"}`)
	if err := s.Set(ctx, map[string][]byte{storage.KeySettings: raw}); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	_, settings, err := storage.NewRepository(s).Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	want := model.DefaultSettings()
	want.ColumnSize = 200
	if settings != want {
		t.Errorf("got %+v, want %+v", settings, want)
	}
}

func TestRepository_NilSitesBecomeEmpty(t *testing.T) {
	ctx := context.Background()
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "s.json"))

	raw := []byte(`{"groups":[{"id":"g1","name":"Work","sites":null}]}`)
	if err := s.Set(ctx, map[string][]byte{storage.KeyGroups: raw}); err != nil {
		t.Fatalf("failed to seed groups: %v", err)
	}

	collection, _, err := storage.NewRepository(s).Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if collection.Groups[0].Sites == nil {
		t.Error("expected sites to be empty slice, not nil")
	}
}
