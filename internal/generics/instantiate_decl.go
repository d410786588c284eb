package generics

import (
	"adalite/internal/ast"
	"adalite/internal/source"
)

func (c *copier) copyDeclList(ids []ast.DeclID, depth int) []ast.DeclID {
	if ids == nil {
		return nil
	}
	out := make([]ast.DeclID, len(ids))
	for i, id := range ids {
		out[i] = c.copyDecl(id, depth, source.NoStringID)
	}
	return out
}

func (c *copier) copyParams(params []ast.Param, depth int) []ast.Param {
	if params == nil {
		return nil
	}
	out := make([]ast.Param, len(params))
	for i, p := range params {
		out[i] = ast.Param{
			Names:   append([]source.StringID(nil), p.Names...),
			Type:    c.copyTypeExpr(p.Type, depth),
			Mode:    p.Mode,
			Default: c.copyExpr(p.Default, depth),
		}
	}
	return out
}

// copyDecl deep-copies id into the builder. rename, when non-zero,
// replaces the copied root declaration's own name — used to give an
// instantiation the user-supplied instance name (§4.6) instead of the
// generic template's name.
func (c *copier) copyDecl(id ast.DeclID, depth int, rename source.StringID) ast.DeclID {
	if !id.IsValid() {
		return ast.NoDeclID
	}
	node := c.builder.Decls.Get(id)
	if node == nil || c.tooDeep(depth, node.Span) {
		return ast.NoDeclID
	}
	span := node.Span
	d := c.builder.Decls

	nameOr := func(n source.StringID) source.StringID {
		if rename != source.NoStringID {
			return rename
		}
		return n
	}

	switch node.Kind {
	case ast.DeclObject:
		data := d.Object(id)
		return d.NewObject(span, ast.ObjectData{
			Names:    append([]source.StringID(nil), data.Names...),
			Type:     c.copyTypeExpr(data.Type, depth+1),
			Init:     c.copyExpr(data.Init, depth+1),
			Constant: data.Constant,
		})

	case ast.DeclType:
		data := d.Type(id)
		return d.NewType(span, nameOr(data.Name), c.copyTypeExpr(data.Def, depth+1))

	case ast.DeclSubtype:
		data := d.Type(id)
		return d.NewSubtype(span, nameOr(data.Name), c.copyTypeExpr(data.Def, depth+1))

	case ast.DeclSubprogramSpec:
		data := d.SubprogramSpec(id)
		retTy := ast.NoTypeExprID
		if data.IsFunction {
			retTy = c.copyTypeExpr(data.ReturnType, depth+1)
		}
		return d.NewSubprogramSpec(span, ast.SubprogramSpecData{
			Name:       nameOr(data.Name),
			IsFunction: data.IsFunction,
			Params:     c.copyParams(data.Params, depth+1),
			ReturnType: retTy,
		})

	case ast.DeclSubprogramBody:
		data := d.SubprogramBody(id)
		return d.NewSubprogramBody(span, ast.SubprogramBodyData{
			Spec:     c.copyDecl(data.Spec, depth+1, rename),
			Decls:    c.copyDeclList(data.Decls, depth+1),
			Body:     c.copyStmtList(data.Body, depth+1),
			Handlers: c.copyHandlers(data.Handlers, depth+1),
		})

	case ast.DeclPackageSpec:
		data := d.PackageSpec(id)
		return d.NewPackageSpec(span, ast.PackageSpecData{
			Name:    nameOr(data.Name),
			Public:  c.copyDeclList(data.Public, depth+1),
			Private: c.copyDeclList(data.Private, depth+1),
		})

	case ast.DeclPackageBody:
		data := d.PackageBody(id)
		return d.NewPackageBody(span, ast.PackageBodyData{
			Name:     nameOr(data.Name),
			Decls:    c.copyDeclList(data.Decls, depth+1),
			Body:     c.copyStmtList(data.Body, depth+1),
			Handlers: c.copyHandlers(data.Handlers, depth+1),
		})

	case ast.DeclGeneric:
		// A generic declared inside another generic's body is copied
		// structurally but never itself re-instantiated here; nested
		// instantiation is driven by a separate Instantiate call once the
		// resolver re-elaborates this copy and reaches its own
		// DeclGenericInstantiation use-sites.
		data := d.Generic(id)
		formals := make([]ast.GenericFormal, len(data.Formals))
		for i, f := range data.Formals {
			formals[i] = ast.GenericFormal{
				Kind:           f.Kind,
				Name:           f.Name,
				ObjectType:     c.copyTypeExpr(f.ObjectType, depth+1),
				ObjectMode:     f.ObjectMode,
				Default:        c.copyExpr(f.Default, depth+1),
				SubprogramSpec: c.copyDecl(f.SubprogramSpec, depth+1, source.NoStringID),
				DefaultName:    f.DefaultName,
			}
		}
		return d.NewGeneric(span, ast.GenericDeclData{Formals: formals, Inner: c.copyDecl(data.Inner, depth+1, source.NoStringID)})

	case ast.DeclGenericInstantiation:
		data := d.GenericInst(id)
		actuals := make([]ast.GenericActual, len(data.Actuals))
		for i, a := range data.Actuals {
			actuals[i] = ast.GenericActual{Name: a.Name, Value: c.copyExpr(a.Value, depth+1)}
		}
		return d.NewGenericInstantiation(span, ast.GenericInstData{
			Name:    nameOr(data.Name),
			Generic: data.Generic,
			Prefix:  data.Prefix,
			IsFunc:  data.IsFunc,
			Actuals: actuals,
		})

	case ast.DeclException:
		data := d.Exception(id)
		return d.NewException(span, append([]source.StringID(nil), data.Names...))

	case ast.DeclRenaming:
		data := d.Renaming(id)
		return d.NewRenaming(span, ast.RenamingData{
			Name:   nameOr(data.Name),
			Spec:   c.copyDecl(data.Spec, depth+1, source.NoStringID),
			Target: c.copyExpr(data.Target, depth+1),
		})
	}
	return ast.NoDeclID
}
