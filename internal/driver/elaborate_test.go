package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeUnit(t *testing.T, dir, name, src string) {
	t.Helper()
	path := filepath.Join(dir, strings.ToLower(name)+".ads")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestElaborateOrdersWithedUnitsBeforeDependents(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "math_utils", "package MATH_UTILS is\nend MATH_UTILS;")
	writeUnit(t, dir, "app", "with MATH_UTILS;\npackage APP is\nend APP;")

	ctx := NewContext(Includes{dir})
	units, err := ctx.elaborate(filepath.Join(dir, "app.ads"))
	if err != nil {
		t.Fatalf("elaborate: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if ctx.Strings.Spelling(units[0].Name) != "MATH_UTILS" {
		t.Fatalf("expected MATH_UTILS first, got %q", ctx.Strings.Spelling(units[0].Name))
	}
	if ctx.Strings.Spelling(units[1].Name) != "APP" {
		t.Fatalf("expected APP last, got %q", ctx.Strings.Spelling(units[1].Name))
	}
}

func TestElaborateDetectsCircularWith(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a", "with B;\npackage A is\nend A;")
	writeUnit(t, dir, "b", "with A;\npackage B is\nend B;")

	ctx := NewContext(Includes{dir})
	if _, err := ctx.elaborate(filepath.Join(dir, "a.ads")); err == nil {
		t.Fatal("expected a circular with-dependency error")
	}
}

func TestElaborateReportsMissingWithedUnit(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "app", "with NO_SUCH_UNIT;\npackage APP is\nend APP;")

	ctx := NewContext(Includes{dir})
	if _, err := ctx.elaborate(filepath.Join(dir, "app.ads")); err == nil {
		t.Fatal("expected an error for an unresolvable with clause")
	}
}
