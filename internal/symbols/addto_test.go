package symbols

import (
	"testing"

	"adalite/internal/source"
	"adalite/internal/types"
)

func TestAddToInstallsIntoGivenScopeAndRestoresCurrent(t *testing.T) {
	strings := source.NewInterner()
	tbl := NewTable(strings, types.NewTable())

	root := tbl.OpenScope(ScopeStandard)
	unitScope := tbl.OpenScope(ScopeLibraryUnit)

	name := strings.Intern("WIDGETS")
	tbl.AddTo(root, name, Symbol{Kind: KindPackage})

	if tbl.Current() != unitScope {
		t.Fatalf("AddTo must restore the current scope: got %v, want %v", tbl.Current(), unitScope)
	}

	if id := tbl.Lookup(root, name); id == NoSymbolID {
		t.Fatal("expected the symbol to be visible from the scope it was installed into")
	}
}

func TestSiblingLibraryScopesAreNotDirectlyVisible(t *testing.T) {
	strings := source.NewInterner()
	tbl := NewTable(strings, types.NewTable())
	root := tbl.OpenScope(ScopeStandard)

	unitAScope := tbl.OpenScope(ScopeLibraryUnit)
	name := strings.Intern("HELPER")
	tbl.Add(name, Symbol{Kind: KindPackage})
	tbl.CloseScope()

	unitBScope := tbl.OpenScope(ScopeLibraryUnit)
	if id := tbl.Lookup(unitBScope, name); id != NoSymbolID {
		t.Fatal("a sibling library unit's scope should not be reachable through Lookup alone")
	}
	tbl.CloseScope()

	// Bridging it through the shared root scope (as the driver does)
	// makes it visible to every later unit.
	tbl.AddTo(root, name, Symbol{Kind: KindPackage})
	unitCScope := tbl.OpenScope(ScopeLibraryUnit)
	if id := tbl.Lookup(unitCScope, name); id == NoSymbolID {
		t.Fatal("expected the bridged symbol to be visible from a later sibling scope")
	}
	_ = unitAScope
}
