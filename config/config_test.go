package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SNAPSHOT_SOURCE", "")
	t.Setenv("SCORE_WORKERS", "")
	t.Setenv("MAP_ZOOM", "")

	cfg := Load()
	if cfg.SnapshotSource != "csv" {
		t.Errorf("SnapshotSource: got %q, want csv", cfg.SnapshotSource)
	}
	if cfg.ScoreWorkers != 4 {
		t.Errorf("ScoreWorkers: got %d, want 4", cfg.ScoreWorkers)
	}
	if cfg.MapZoom != 11 {
		t.Errorf("MapZoom: got %.1f, want 11", cfg.MapZoom)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SNAPSHOT_SOURCE", "Postgres")
	t.Setenv("SCORE_WORKERS", "8")
	t.Setenv("MAP_ZOOM", "12.5")
	t.Setenv("POSTGRES_ENABLED", "true")
	t.Setenv("PAGE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.SnapshotSource != "postgres" {
		t.Errorf("SnapshotSource: got %q, want postgres", cfg.SnapshotSource)
	}
	if cfg.ScoreWorkers != 8 {
		t.Errorf("ScoreWorkers: got %d, want 8", cfg.ScoreWorkers)
	}
	if cfg.MapZoom != 12.5 {
		t.Errorf("MapZoom: got %.1f, want 12.5", cfg.MapZoom)
	}
	if !cfg.PostgresEnabled {
		t.Error("PostgresEnabled should be true")
	}
	if cfg.PageSize != 0 {
		t.Errorf("PageSize: unparseable value should fall back to 0, got %d", cfg.PageSize)
	}
}

func TestParseViewport(t *testing.T) {
	n, s, e, w, ok, err := ParseViewport("43.9, 43.5, -79.1, -79.7")
	if err != nil || !ok {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	if n != 43.9 || s != 43.5 || e != -79.1 || w != -79.7 {
		t.Errorf("edges: got %v %v %v %v", n, s, e, w)
	}

	if _, _, _, _, ok, err := ParseViewport(""); ok || err != nil {
		t.Errorf("empty viewport: ok=%v err=%v, want false/nil", ok, err)
	}

	bad := []string{"1,2,3", "a,b,c,d", "43.0,44.0,-79,-80"}
	for _, raw := range bad {
		if _, _, _, _, _, err := ParseViewport(raw); err == nil {
			t.Errorf("ParseViewport(%q): expected error", raw)
		}
	}
}

func TestLoadEngine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "valuation.toml")
	body := `
default_location_score = 70
page_size = 25

[location]
Toronto = 92
Hamilton = 81
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultLocationScore != 70 || cfg.PageSize != 25 {
		t.Errorf("scalars: got default=%d page=%d", cfg.DefaultLocationScore, cfg.PageSize)
	}
	if cfg.Location["Toronto"] != 92 || cfg.Location["Hamilton"] != 81 {
		t.Errorf("location table: got %v", cfg.Location)
	}
}

func TestLoadEngineMissingFile(t *testing.T) {
	cfg, err := LoadEngine(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(cfg.Location) != 0 || cfg.DefaultLocationScore != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadEngineRejectsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[location]\nToronto = 140\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEngine(path); err == nil {
		t.Error("expected out-of-range location score to be rejected")
	}
}
