package generics

import (
	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/source"
)

// maxCopyDepth bounds the deep-copier's recursion, guarding against a
// pathological self-referential generic body producing unbounded work.
const maxCopyDepth = 256

// Binding substitutes a template's formals with one instantiation's
// actuals. Exactly the map matching a formal's GenericFormalKind is
// consulted for it; a formal with no entry copies through unchanged
// (used for `is <>` / box defaults already bound to STANDARD
// operations, which the resolver looks up by the formal's own name).
type Binding struct {
	Types       map[source.StringID]ast.TypeExprID
	Objects     map[source.StringID]ast.ExprID
	Subprograms map[source.StringID]source.StringID
}

// Instantiate deep-copies tmpl's Inner declaration into builder with
// every formal reference substituted per binding, and returns the
// fresh root DeclID — a DeclSubprogramSpec/Body or DeclPackageSpec/Body
// ready for the resolver to elaborate as an ordinary declaration
// (§4.6). instanceName replaces the template's own name at the root.
func Instantiate(builder *ast.Builder, bag *diag.Bag, tmpl *Template, binding Binding, instanceName source.StringID) ast.DeclID {
	c := &copier{builder: builder, bag: bag, binding: binding}
	return c.copyDecl(tmpl.Inner, 0, instanceName)
}

type copier struct {
	builder *ast.Builder
	bag     *diag.Bag
	binding Binding
}

func (c *copier) tooDeep(depth int, span source.Span) bool {
	if depth > maxCopyDepth {
		c.bag.Errorf(diag.GenericInst, span, "generic instantiation exceeds the maximum nesting depth")
		return true
	}
	return false
}

// substName resolves a formal's replacement spelling for a
// subprogram-formal reference, falling through to name unchanged when
// no substitution applies.
func (c *copier) substName(name source.StringID) source.StringID {
	if actual, ok := c.binding.Subprograms[name]; ok {
		return actual
	}
	return name
}

func (c *copier) copyExpr(id ast.ExprID, depth int) ast.ExprID {
	if !id.IsValid() {
		return ast.NoExprID
	}
	node := c.builder.Exprs.Get(id)
	if node == nil || c.tooDeep(depth, node.Span) {
		return ast.NoExprID
	}
	span := node.Span
	e := c.builder.Exprs

	switch node.Kind {
	case ast.ExprIntLit:
		return e.NewIntLit(span, e.Lit(id).Int)
	case ast.ExprRealLit:
		return e.NewRealLit(span, e.Lit(id).Real)
	case ast.ExprCharLit:
		return e.NewCharLit(span, e.Lit(id).Char)
	case ast.ExprStringLit:
		return e.NewStringLit(span, e.Lit(id).String)
	case ast.ExprNullLit:
		return e.NewNullLit(span)

	case ast.ExprIdent:
		name := e.Ident(id).Name
		if actual, ok := c.binding.Objects[name]; ok {
			return c.copyExpr(actual, depth+1)
		}
		return e.NewIdent(span, c.substName(name))

	case ast.ExprUnary:
		data := e.Unary(id)
		return e.NewUnary(span, data.Op, c.copyExpr(data.Operand, depth+1))

	case ast.ExprBinary:
		data := e.Binary(id)
		return e.NewBinary(span, data.Op, c.copyExpr(data.Left, depth+1), c.copyExpr(data.Right, depth+1))

	case ast.ExprIndexed:
		data := e.Indexed(id)
		return e.NewIndexed(span, c.copyExpr(data.Prefix, depth+1), c.copyExprList(data.Args, depth+1))

	case ast.ExprSlice:
		data := e.Slice(id)
		return e.NewSlice(span, c.copyExpr(data.Prefix, depth+1), c.copyExpr(data.Low, depth+1), c.copyExpr(data.High, depth+1))

	case ast.ExprSelected:
		data := e.Selected(id)
		return e.NewSelected(span, c.copyExpr(data.Prefix, depth+1), data.Name)

	case ast.ExprAttribute:
		data := e.Attribute(id)
		return e.NewAttribute(span, c.copyExpr(data.Prefix, depth+1), data.Attr, c.copyExprList(data.Args, depth+1))

	case ast.ExprQualified:
		data := e.Qualified(id)
		return e.NewQualified(span, c.substTypeMarkName(data.TypeMark), c.copyExpr(data.Value, depth+1))

	case ast.ExprConvert:
		data := e.Convert(id)
		return e.NewConvert(span, c.substTypeMarkName(data.TypeMark), c.copyExpr(data.Value, depth+1))

	case ast.ExprCall:
		data := e.Call(id)
		args := make([]ast.CallArg, len(data.Args))
		for i, a := range data.Args {
			args[i] = ast.CallArg{Name: a.Name, Value: c.copyExpr(a.Value, depth+1)}
		}
		return e.NewCall(span, c.copyExpr(data.Callee, depth+1), args)

	case ast.ExprAggregate:
		data := e.Aggregate(id)
		assocs := make([]ast.AggregateAssoc, len(data.Assocs))
		for i, a := range data.Assocs {
			assocs[i] = ast.AggregateAssoc{Choices: c.copyExprList(a.Choices, depth+1), Others: a.Others, Value: c.copyExpr(a.Value, depth+1)}
		}
		return e.NewAggregate(span, assocs)

	case ast.ExprAllocator:
		data := e.Allocator(id)
		return e.NewAllocator(span, c.substTypeMarkName(data.TypeMark), c.copyExpr(data.Init, depth+1))

	case ast.ExprRange:
		data := e.Range(id)
		return e.NewRange(span, c.copyExpr(data.Low, depth+1), c.copyExpr(data.High, depth+1))

	case ast.ExprDeref:
		data := e.Deref(id)
		return e.NewDeref(span, c.copyExpr(data.Prefix, depth+1))

	case ast.ExprCheck:
		data := e.Check(id)
		return e.NewCheck(span, data.Kind, c.copyExpr(data.Value, depth+1), c.copyExpr(data.LowBound, depth+1), c.copyExpr(data.HighBound, depth+1))
	}
	return ast.NoExprID
}

// substTypeMarkName substitutes a bare type-mark name used where the
// grammar stores only a name (qualified expressions, conversions,
// allocators) rather than a full TypeExprID; a formal type substitution
// stores a TypeExprID (a TypeMark itself, by construction), so its name
// is recovered via the Mark payload when present.
func (c *copier) substTypeMarkName(name source.StringID) source.StringID {
	if actualTyExpr, ok := c.binding.Types[name]; ok {
		if mark := c.builder.TypeExprs.Get(actualTyExpr); mark != nil && mark.Kind == ast.TypeMark {
			return c.builder.TypeExprs.Mark(actualTyExpr).Name
		}
	}
	return name
}

func (c *copier) copyExprList(ids []ast.ExprID, depth int) []ast.ExprID {
	if ids == nil {
		return nil
	}
	out := make([]ast.ExprID, len(ids))
	for i, id := range ids {
		out[i] = c.copyExpr(id, depth)
	}
	return out
}

func (c *copier) copyTypeExpr(id ast.TypeExprID, depth int) ast.TypeExprID {
	if !id.IsValid() {
		return ast.NoTypeExprID
	}
	node := c.builder.TypeExprs.Get(id)
	if node == nil || c.tooDeep(depth, node.Span) {
		return ast.NoTypeExprID
	}
	span := node.Span
	t := c.builder.TypeExprs

	switch node.Kind {
	case ast.TypeMark:
		data := t.Mark(id)
		if actual, ok := c.binding.Types[data.Name]; ok {
			return c.copyTypeExpr(actual, depth+1)
		}
		return t.NewMark(span, data.Prefix, data.Name)

	case ast.TypeRangeConstraint:
		data := t.RangeConstraint(id)
		return t.NewRangeConstraint(span, c.copyTypeExpr(data.Mark, depth+1), c.copyExpr(data.Low, depth+1), c.copyExpr(data.High, depth+1))

	case ast.TypeDigitsConstraint:
		data := t.DigitsConstraint(id)
		return t.NewDigitsConstraint(span, ast.DigitsConstraintData{
			Mark:      c.copyTypeExpr(data.Mark, depth+1),
			Digits:    c.copyExpr(data.Digits, depth+1),
			RangeLow:  c.copyExpr(data.RangeLow, depth+1),
			RangeHigh: c.copyExpr(data.RangeHigh, depth+1),
		})

	case ast.TypeIndexConstraint:
		data := t.IndexConstraint(id)
		ranges := make([]ast.IndexRange, len(data.Ranges))
		for i, rg := range data.Ranges {
			ranges[i] = ast.IndexRange{Low: c.copyExpr(rg.Low, depth+1), High: c.copyExpr(rg.High, depth+1)}
		}
		return t.NewIndexConstraint(span, c.copyTypeExpr(data.Mark, depth+1), ranges)

	case ast.TypeDiscriminantConstraint:
		data := t.DiscriminantConstraint(id)
		assocs := make([]ast.DiscriminantAssoc, len(data.Assocs))
		for i, a := range data.Assocs {
			assocs[i] = ast.DiscriminantAssoc{Name: a.Name, Value: c.copyExpr(a.Value, depth+1)}
		}
		return t.NewDiscriminantConstraint(span, c.copyTypeExpr(data.Mark, depth+1), assocs)

	case ast.TypeDerived:
		data := t.Derived(id)
		return t.NewDerived(span, c.copyTypeExpr(data.Parent, depth+1))

	case ast.TypeEnum:
		data := t.Enum(id)
		return t.NewEnum(span, append([]source.StringID(nil), data.Literals...))

	case ast.TypeRecord:
		data := t.Record(id)
		return t.NewRecord(span, ast.RecordData{
			Discriminants: c.copyFields(data.Discriminants, depth+1),
			Fields:        c.copyFields(data.Fields, depth+1),
			Variant:       c.copyVariant(data.Variant, depth+1),
		})

	case ast.TypeArray:
		data := t.Array(id)
		indices := make([]ast.ArrayIndex, len(data.Indices))
		for i, idx := range data.Indices {
			indices[i] = ast.ArrayIndex{
				Unconstrained: idx.Unconstrained,
				IndexMark:     c.copyTypeExpr(idx.IndexMark, depth+1),
				Low:           c.copyExpr(idx.Low, depth+1),
				High:          c.copyExpr(idx.High, depth+1),
			}
		}
		return t.NewArray(span, ast.ArrayData{Indices: indices, Elem: c.copyTypeExpr(data.Elem, depth+1), Packed: data.Packed})

	case ast.TypeAccess:
		data := t.Access(id)
		return t.NewAccess(span, data.All, c.copyTypeExpr(data.Designated, depth+1))

	case ast.TypePrivate:
		data := t.Private(id)
		return t.NewPrivate(span, data.Limited)
	}
	return ast.NoTypeExprID
}

func (c *copier) copyFields(fields []ast.RecordField, depth int) []ast.RecordField {
	if fields == nil {
		return nil
	}
	out := make([]ast.RecordField, len(fields))
	for i, f := range fields {
		out[i] = ast.RecordField{
			Names:   append([]source.StringID(nil), f.Names...),
			Type:    c.copyTypeExpr(f.Type, depth),
			Default: c.copyExpr(f.Default, depth),
		}
	}
	return out
}

func (c *copier) copyVariant(v *ast.VariantPart, depth int) *ast.VariantPart {
	if v == nil {
		return nil
	}
	arms := make([]ast.VariantArm, len(v.Arms))
	for i, arm := range v.Arms {
		arms[i] = ast.VariantArm{
			Choices: c.copyExprList(arm.Choices, depth),
			Others:  arm.Others,
			Fields:  c.copyFields(arm.Fields, depth),
			Nested:  c.copyVariant(arm.Nested, depth+1),
		}
	}
	return &ast.VariantPart{Discriminant: v.Discriminant, Arms: arms}
}
