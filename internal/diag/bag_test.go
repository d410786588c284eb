package diag

import (
	"testing"

	"adalite/internal/source"
)

func TestBagCascadeCapSuppressesExcessSemanticErrors(t *testing.T) {
	bag := NewBag()
	for i := 0; i < CascadeLimit+10; i++ {
		bag.Errorf(Semantic, source.Span{}, "error %d", i)
	}
	if len(bag.Items()) != CascadeLimit {
		t.Fatalf("expected %d recorded diagnostics, got %d", CascadeLimit, len(bag.Items()))
	}
	if bag.Suppressed() != 10 {
		t.Fatalf("expected 10 suppressed diagnostics, got %d", bag.Suppressed())
	}
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
}

func TestBagSyntacticErrorsNeverCapped(t *testing.T) {
	bag := NewBag()
	for i := 0; i < CascadeLimit+10; i++ {
		bag.Errorf(Syntactic, source.Span{}, "syntax error %d", i)
	}
	if len(bag.Items()) != CascadeLimit+10 {
		t.Fatalf("expected all syntactic errors to be kept uncapped, got %d", len(bag.Items()))
	}
	if bag.Suppressed() != 0 {
		t.Fatalf("expected no suppression for fatal category, got %d", bag.Suppressed())
	}
}

func TestBagWarningsDoNotCountTowardHasErrors(t *testing.T) {
	bag := NewBag()
	bag.Warnf(Semantic, source.Span{}, "just a warning")
	if bag.HasErrors() {
		t.Fatal("a warning-only bag should not report HasErrors")
	}
}
