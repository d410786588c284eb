package sema

import (
	"testing"

	"adalite/internal/ast"
)

// TestInsertRangeCheckWrapsNarrowedObjectInit covers scenario S2: a
// declared object whose subtype's static bounds are a proper subrange
// of its initializer's base type gets an explicit ExprCheck node
// spliced around the initializer (§4.3), instead of trusting the store
// blindly.
func TestInsertRangeCheckWrapsNarrowedObjectInit(t *testing.T) {
	builder, _, bag := resolveSource(`procedure P is
   X : INTEGER range 1 .. 10 := 0;
begin
   null;
end P;`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	body := findSubprogramBody(builder, "P")
	if body == ast.NoDeclID {
		t.Fatal("expected to find subprogram body P")
	}
	data := builder.Decls.SubprogramBody(body)
	if len(data.Decls) != 1 {
		t.Fatalf("expected 1 local declaration, got %d", len(data.Decls))
	}
	obj := builder.Decls.Object(data.Decls[0])
	if !obj.Init.IsValid() {
		t.Fatal("expected an initializer")
	}
	node := builder.Exprs.Get(obj.Init)
	if node.Kind != ast.ExprCheck {
		t.Fatalf("expected the initializer to be wrapped in an ExprCheck, got %v", node.Kind)
	}
	check := builder.Exprs.Check(obj.Init)
	if check.Kind != ast.CheckRange {
		t.Fatalf("expected a CheckRange, got %v", check.Kind)
	}
	if !check.LowBound.IsValid() || !check.HighBound.IsValid() {
		t.Fatal("expected both check bounds to be populated")
	}
}

// TestInsertRangeCheckSkipsUnconstrainedObjectInit confirms an object
// declared at its type's own base range (no tighter subtype) is left
// alone — boundsTighter must not insert a check for an initializer
// that's already within the full base range.
func TestInsertRangeCheckSkipsUnconstrainedObjectInit(t *testing.T) {
	builder, _, bag := resolveSource(`procedure P is
   X : INTEGER := 0;
begin
   null;
end P;`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	body := findSubprogramBody(builder, "P")
	data := builder.Decls.SubprogramBody(body)
	obj := builder.Decls.Object(data.Decls[0])
	node := builder.Exprs.Get(obj.Init)
	if node.Kind == ast.ExprCheck {
		t.Fatal("did not expect a check around an unconstrained INTEGER initializer")
	}
}

func findSubprogramBody(b *ast.Builder, name string) ast.DeclID {
	for i := range b.Decls.Nodes.Len() {
		id := ast.DeclID(i)
		node := b.Decls.Get(id)
		if node == nil || node.Kind != ast.DeclSubprogramBody {
			continue
		}
		data := b.Decls.SubprogramBody(id)
		spec := b.Decls.SubprogramSpec(data.Spec)
		if spec == nil {
			continue
		}
		if b.Strings.Spelling(spec.Name) == name {
			return id
		}
	}
	return ast.NoDeclID
}
