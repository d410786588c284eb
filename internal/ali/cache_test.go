package ali

import (
	"path/filepath"
	"testing"
)

func TestWriteCachedReadCachedHitAndStale(t *testing.T) {
	dir := t.TempDir()
	alicPath := filepath.Join(dir, "unit.alic")

	f := &File{Version: "1", Unit: "UNIT", Exports: []Export{{MangledName: "UNIT__F", Return: ArgVoid}}}
	if err := WriteCached(alicPath, f, 100); err != nil {
		t.Fatalf("WriteCached: %v", err)
	}

	got, ok := ReadCached(alicPath, 100)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Unit != "UNIT" {
		t.Fatalf("unit mismatch: got %q", got.Unit)
	}

	if _, ok := ReadCached(alicPath, 200); ok {
		t.Fatal("expected a cache miss for a stale mtime")
	}
}

func TestReadCachedMissingFile(t *testing.T) {
	if _, ok := ReadCached(filepath.Join(t.TempDir(), "missing.alic"), 1); ok {
		t.Fatal("expected a cache miss for a missing file")
	}
}
