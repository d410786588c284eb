package parser

import (
	"testing"

	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/lexer"
	"adalite/internal/source"
)

func newTestParser(t *testing.T, src string) (*Parser, *ast.Builder, *diag.Bag) {
	t.Helper()
	files := source.NewFileSet()
	fid := files.Add("t.ads", src)
	strings := source.NewInterner()
	bag := diag.NewBag()
	builder := ast.NewBuilder(strings, ast.DefaultHints)
	lex := lexer.New(files.Get(fid), fid, bag)
	return New(lex, builder, bag, fid), builder, bag
}

func TestParseDiscriminatedRecordType(t *testing.T) {
	p, b, bag := newTestParser(t, `type Buffer(Size : INTEGER) is record
		Data : INTEGER;
	end record;`)

	id := p.parseDecl()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	def := b.Decls.Type(id).Def
	node := b.TypeExprs.Get(def)
	if node.Kind != ast.TypeRecord {
		t.Fatalf("expected TypeRecord, got %v", node.Kind)
	}
	rec := b.TypeExprs.Record(def)
	if len(rec.Discriminants) != 1 {
		t.Fatalf("expected 1 discriminant, got %d", len(rec.Discriminants))
	}
	if len(rec.Discriminants[0].Names) != 1 {
		t.Fatalf("expected 1 discriminant name, got %d", len(rec.Discriminants[0].Names))
	}
	if len(rec.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(rec.Fields))
	}
}

func TestParseVariantRecordType(t *testing.T) {
	p, b, bag := newTestParser(t, `type Shape(Kind : INTEGER) is record
		case Kind is
			when 0 =>
				Radius : INTEGER;
			when others =>
				Side : INTEGER;
		end case;
	end record;`)

	id := p.parseDecl()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	def := b.Decls.Type(id).Def
	rec := b.TypeExprs.Record(def)
	if rec.Variant == nil {
		t.Fatal("expected a variant part")
	}
}

func TestParseUnconstrainedArrayType(t *testing.T) {
	p, b, bag := newTestParser(t, `type Vector is array (INTEGER range <>) of INTEGER;`)

	id := p.parseDecl()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	def := b.Decls.Type(id).Def
	node := b.TypeExprs.Get(def)
	if node.Kind != ast.TypeArray {
		t.Fatalf("expected TypeArray, got %v", node.Kind)
	}
	arr := b.TypeExprs.Array(def)
	if len(arr.Indices) != 1 {
		t.Fatalf("expected 1 index dimension, got %d", len(arr.Indices))
	}
}

func TestParseAccessType(t *testing.T) {
	p, b, bag := newTestParser(t, `type Ptr is access all INTEGER;`)

	id := p.parseDecl()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	def := b.Decls.Type(id).Def
	node := b.TypeExprs.Get(def)
	if node.Kind != ast.TypeAccess {
		t.Fatalf("expected TypeAccess, got %v", node.Kind)
	}
}

func TestParseDerivedType(t *testing.T) {
	p, b, bag := newTestParser(t, `type Celsius is new INTEGER;`)

	id := p.parseDecl()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	def := b.Decls.Type(id).Def
	node := b.TypeExprs.Get(def)
	if node.Kind != ast.TypeDerived {
		t.Fatalf("expected TypeDerived, got %v", node.Kind)
	}
}
