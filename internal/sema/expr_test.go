package sema

import (
	"strings"
	"testing"

	"adalite/internal/diag"
)

// TestCheckAggregateCoverageDetectsDuplicateIndex covers §4.4: two
// associations choosing the same index must be rejected.
func TestCheckAggregateCoverageDetectsDuplicateIndex(t *testing.T) {
	_, _, bag := resolveSource(`procedure P is
   type ARR is array (1 .. 3) of INTEGER;
   X : ARR := (1 => 10, 1 => 20, 3 => 30);
begin
   null;
end P;`)
	if !hasDiagMatching(bag, "duplicate aggregate association") {
		t.Fatalf("expected a duplicate-association diagnostic, got: %v", diagMessages(bag))
	}
}

// TestCheckAggregateCoverageDetectsGap covers §4.4: without an others
// choice, every index between the lowest and highest chosen index must
// be covered.
func TestCheckAggregateCoverageDetectsGap(t *testing.T) {
	_, _, bag := resolveSource(`procedure P is
   type ARR is array (1 .. 3) of INTEGER;
   X : ARR := (1 => 10, 3 => 30);
begin
   null;
end P;`)
	if !hasDiagMatching(bag, "gap at index") {
		t.Fatalf("expected a gap diagnostic, got: %v", diagMessages(bag))
	}
}

// TestCheckAggregateCoverageRejectsNonTrailingOthers covers §4.4:
// `others` must be the last association.
func TestCheckAggregateCoverageRejectsNonTrailingOthers(t *testing.T) {
	_, _, bag := resolveSource(`procedure P is
   type ARR is array (1 .. 3) of INTEGER;
   X : ARR := (others => 0, 2 => 5);
begin
   null;
end P;`)
	if !hasDiagMatching(bag, "others choice must be the last") {
		t.Fatalf("expected a non-trailing-others diagnostic, got: %v", diagMessages(bag))
	}
}

// TestCheckAggregateCoverageAcceptsOthersFill confirms a gap fully
// covered by a trailing others is not flagged.
func TestCheckAggregateCoverageAcceptsOthersFill(t *testing.T) {
	_, _, bag := resolveSource(`procedure P is
   type ARR is array (1 .. 3) of INTEGER;
   X : ARR := (1 => 10, others => 0);
begin
   null;
end P;`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diagMessages(bag))
	}
}

func diagMessages(bag *diag.Bag) []string {
	msgs := make([]string, 0, len(bag.Items()))
	for _, d := range bag.Items() {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func hasDiagMatching(bag *diag.Bag, substr string) bool {
	for _, msg := range diagMessages(bag) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
