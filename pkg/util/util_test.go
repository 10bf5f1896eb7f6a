package util

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	type config struct {
		Name  string `yaml:"name"`
		Port  int    `yaml:"port"`
		Pairs []int  `yaml:"pairs"`
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "name: simcharts\nport: 8421\npairs: [1, 2]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig[config](path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "simcharts" || cfg.Port != 8421 || len(cfg.Pairs) != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig[struct{}]("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 250000000)
	got := Timestamp(now)
	if math.Abs(got-1700000000.25) > 1e-6 {
		t.Errorf("Timestamp = %v, want 1700000000.25", got)
	}
}

func TestEnsureDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	if err := EnsureDirs(root, []string{"land", "shore"}); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, dir := range []string{root, filepath.Join(root, "land"), filepath.Join(root, "shore")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}
