package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "adac.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Target != want.Target || cfg.OutputDir != want.OutputDir || len(cfg.Includes) != 0 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadDecodesManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adac.toml")
	body := `
includes = ["lib", "vendor"]
target = "aarch64-unknown-linux-gnu"
suppress_checks = ["overflow"]
output_dir = "build"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Includes) != 2 || cfg.Includes[0] != "lib" || cfg.Includes[1] != "vendor" {
		t.Fatalf("includes mismatch: got %+v", cfg.Includes)
	}
	if cfg.Target != "aarch64-unknown-linux-gnu" {
		t.Fatalf("target mismatch: got %q", cfg.Target)
	}
	if cfg.OutputDir != "build" {
		t.Fatalf("output dir mismatch: got %q", cfg.OutputDir)
	}
}

func TestMergeCLIOverridesWinOverFile(t *testing.T) {
	base := Config{Includes: []string{"lib"}, Target: "x86_64-unknown-linux-gnu", OutputDir: "."}
	over := Config{Includes: []string{"-I-dir"}, Target: "wasm32-unknown-unknown"}

	merged := Merge(base, over)
	if merged.Target != "wasm32-unknown-unknown" {
		t.Fatalf("expected CLI target to win, got %q", merged.Target)
	}
	if len(merged.Includes) != 2 || merged.Includes[0] != "lib" || merged.Includes[1] != "-I-dir" {
		t.Fatalf("expected includes to append, got %+v", merged.Includes)
	}
	if merged.OutputDir != "." {
		t.Fatalf("expected unset override to leave OutputDir alone, got %q", merged.OutputDir)
	}
}
