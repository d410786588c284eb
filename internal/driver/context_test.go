package driver

import (
	"testing"

	"adalite/internal/symbols"
)

func TestRegisterLibraryUnitIsIdempotent(t *testing.T) {
	ctx := NewContext(Includes{"."})
	name := ctx.Strings.Intern("WIDGETS")

	ctx.registerLibraryUnit(name, symbols.KindPackage)
	first := ctx.Symbols.Lookup(ctx.Prelude.Scope, name)
	if first == symbols.NoSymbolID {
		t.Fatal("expected the unit symbol to be registered at the prelude scope")
	}

	ctx.registerLibraryUnit(name, symbols.KindPackage)
	second := ctx.Symbols.Lookup(ctx.Prelude.Scope, name)
	if second != first {
		t.Fatalf("expected registerLibraryUnit to be idempotent, got a new symbol id %v (was %v)", second, first)
	}
}

func TestRegisterLibraryUnitIgnoresInvalidName(t *testing.T) {
	ctx := NewContext(Includes{"."})
	ctx.registerLibraryUnit(0, symbols.KindPackage) // source.NoStringID is the zero value
}
