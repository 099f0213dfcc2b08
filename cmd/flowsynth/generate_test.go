package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/flowsynth/internal/config"
	"github.com/san-kum/flowsynth/internal/grid"
)

func TestNewRegistryUnusableCacheDir(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = filepath.Join(blocker, "cache")

	registry := newRegistry(cfg, nil)
	if registry == nil {
		t.Fatal("expected a registry")
	}

	for _, name := range []string{"simple", "vortex", "gyre"} {
		pair, err := registry.Generate(context.Background(), name, 2, grid.New(6, 4, 1, 1), nil)
		if err != nil {
			t.Fatalf("%s: generation failed with an unusable cache: %v", name, err)
		}
		if pair.Shape().T != 2 {
			t.Errorf("%s: expected 2 slices, got %d", name, pair.Shape().T)
		}
	}
}

func TestNewRegistryWritableCacheDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")

	newRegistry(cfg, nil)
	if info, err := os.Stat(cfg.Cache.Dir); err != nil || !info.IsDir() {
		t.Errorf("expected cache dir to be created: %v", err)
	}
}
