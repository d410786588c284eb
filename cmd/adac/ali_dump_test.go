package main

import (
	"os"
	"path/filepath"
	"testing"

	"adalite/internal/ali"
)

func TestRunAliDumpReadsWrittenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.ali")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	err = ali.Write(f, &ali.File{
		Version: "1",
		Unit:    "APP",
		Exports: []ali.Export{{MangledName: "APP__MAIN", Return: ali.ArgVoid}},
	})
	f.Close()
	if err != nil {
		t.Fatalf("ali.Write: %v", err)
	}

	if err := runAliDump(aliDumpCmd, []string{path}); err != nil {
		t.Fatalf("runAliDump: %v", err)
	}
}

func TestRunAliDumpMissingFile(t *testing.T) {
	if err := runAliDump(aliDumpCmd, []string{filepath.Join(t.TempDir(), "missing.ali")}); err == nil {
		t.Fatal("expected an error for a missing .ali file")
	}
}
