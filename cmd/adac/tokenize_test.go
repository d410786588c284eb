package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunTokenizeValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.ads")
	if err := os.WriteFile(path, []byte("package P is\nend P;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runTokenize(tokenizeCmd, []string{path}); err != nil {
		t.Fatalf("runTokenize: %v", err)
	}
}

func TestRunTokenizeMissingFile(t *testing.T) {
	if err := runTokenize(tokenizeCmd, []string{filepath.Join(t.TempDir(), "missing.ads")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
