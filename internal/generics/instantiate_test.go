package generics_test

import (
	"testing"

	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/generics"
	"adalite/internal/lexer"
	"adalite/internal/parser"
	"adalite/internal/sema"
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// resolveSource runs src through the parser and the resolver, with a
// fresh Registry wired in exactly as driver.Context does, so an
// instantiation inside src is registered and expanded end to end
// rather than by hand-building a Template.
func resolveSource(t *testing.T, src string) (*ast.Builder, *sema.Result, *diag.Bag) {
	t.Helper()
	files := source.NewFileSet()
	fid := files.Add("test.adb", src)
	strings := source.NewInterner()
	bag := diag.NewBag()
	builder := ast.NewBuilder(strings, ast.DefaultHints)
	lex := lexer.New(files.Get(fid), fid, bag)
	p := parser.New(lex, builder, bag, fid)
	f, err := p.ParseFile()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ty := types.NewTable()
	symTable := symbols.NewTable(strings, ty)
	prelude := symbols.InstallPrelude(symTable)
	reg := generics.NewRegistry()

	r := sema.New(builder, sema.Options{
		Bag: bag, Files: files, Symbols: symTable, Types: ty, Prelude: prelude, Generics: reg,
	})
	res := r.ResolveFile(f)
	return builder, res, bag
}

// findDecl walks every allocated decl node looking for one of kind
// whose introduced name (recovered per-kind) equals name.
func findDecl(b *ast.Builder, kind ast.DeclKind, name string) ast.DeclID {
	for i := range b.Decls.Nodes.Len() {
		id := ast.DeclID(i)
		node := b.Decls.Get(id)
		if node == nil || node.Kind != kind {
			continue
		}
		var n source.StringID
		switch kind {
		case ast.DeclGenericInstantiation:
			n = b.Decls.GenericInst(id).Name
		case ast.DeclSubprogramBody:
			if spec := b.Decls.SubprogramSpec(b.Decls.SubprogramBody(id).Spec); spec != nil {
				n = spec.Name
			}
		}
		if b.Strings.Spelling(n) == name {
			return id
		}
	}
	return ast.NoDeclID
}

// TestGenericInstantiationSubstitutesObjectFormal exercises the
// Registry/Instantiate wiring end to end (§4.6): a generic procedure's
// object formal, referenced in its body, must be replaced by the
// instantiation's actual expression in the copy the resolver
// elaborates in SET_IT's instance's place.
func TestGenericInstantiationSubstitutesObjectFormal(t *testing.T) {
	builder, res, bag := resolveSource(t, `procedure MAIN is
   generic
      N : INTEGER;
   procedure SET_IT(X : out INTEGER) is
   begin
      X := N;
   end SET_IT;

   DOUBLE is new SET_IT(42);
begin
   null;
end MAIN;`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	instID := findDecl(builder, ast.DeclGenericInstantiation, "DOUBLE")
	if instID == ast.NoDeclID {
		t.Fatal("expected to find the DOUBLE instantiation declaration")
	}
	concrete, ok := res.InstantiationDecls[instID]
	if !ok || !concrete.IsValid() {
		t.Fatal("expected InstantiationDecls to record the expanded declaration")
	}
	if sym, ok := res.DeclSymbols[instID]; !ok || sym == symbols.NoSymbolID {
		t.Fatal("expected the instantiation's own DeclID to resolve to a symbol")
	}

	body := builder.Decls.SubprogramBody(concrete)
	if len(body.Body) != 1 {
		t.Fatalf("expected 1 statement in the instantiated body, got %d", len(body.Body))
	}
	assign := builder.Stmts.Assign(body.Body[0])
	node := builder.Exprs.Get(assign.Value)
	if node.Kind != ast.ExprIntLit {
		t.Fatalf("expected the formal reference to be substituted with an int literal, got %v", node.Kind)
	}
	lit := builder.Exprs.Lit(assign.Value)
	if lit.Int == nil || lit.Int.Int64() != 42 {
		t.Fatalf("expected the substituted literal to be 42, got %v", lit.Int)
	}
}

// TestRegistryGetReturnsNilForUnknownTemplate confirms Get's bounds
// check rather than panicking on an out-of-range or NoTemplateID
// lookup.
func TestRegistryGetReturnsNilForUnknownTemplate(t *testing.T) {
	reg := generics.NewRegistry()
	if tmpl := reg.Get(generics.NoTemplateID); tmpl != nil {
		t.Fatal("expected NoTemplateID to resolve to nil")
	}
	if tmpl := reg.Get(generics.TemplateID(99)); tmpl != nil {
		t.Fatal("expected an out-of-range TemplateID to resolve to nil")
	}
}

// TestRegistryRegisterAssignsDistinctIDs confirms Register returns
// increasing, distinct IDs and Get round-trips the stored Template.
func TestRegistryRegisterAssignsDistinctIDs(t *testing.T) {
	reg := generics.NewRegistry()
	a := reg.Register(generics.Template{Name: source.StringID(1)})
	b := reg.Register(generics.Template{Name: source.StringID(2)})
	if a == b {
		t.Fatalf("expected distinct template IDs, got %v and %v", a, b)
	}
	if got := reg.Get(a); got == nil || got.Name != source.StringID(1) {
		t.Fatalf("expected Get(%v) to round-trip the registered template, got %+v", a, got)
	}
}
