package driver

import (
	"fmt"
	"time"

	"adalite/internal/ali"
	"adalite/internal/ast"
	"adalite/internal/ir"
	"adalite/internal/sema"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// Result is everything one `adac build` run produced: the emitted LLVM
// textual IR for the root unit and its .ali interface descriptor.
// Diagnostics accumulated resolving the with-closure live on the
// Context's own Bag (Context.Bag), which outlives any single Result.
type Result struct {
	LLVM      string
	ALI       *ali.File
	Elapsed   time.Duration
	UnitNames []string
}

// Compile runs the whole pipeline for path: discover and parse its
// with-closure in dependency order, resolve each unit, lower the root
// unit to IR, and assemble its .ali file (§4.8).
func (c *Context) Compile(path string) (*Result, error) {
	start := time.Now()
	units, err := c.elaborate(path)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%s: no compilation unit found", path)
	}

	sr := sema.New(c.Builder, sema.Options{
		Bag:      c.Bag,
		Files:    c.Files,
		Symbols:  c.Symbols,
		Types:    c.Types,
		Prelude:  c.Prelude,
		Generics: c.Generics,
	})
	merged := sema.Result{
		ExprTypes:          make(map[ast.ExprID]types.TypeID),
		ExprSymbols:        make(map[ast.ExprID]symbols.SymbolID),
		DeclSymbols:        make(map[ast.DeclID]symbols.SymbolID),
		UnitScopes:         make(map[int]symbols.ScopeID),
		ObjectSymbols:      make(map[ast.DeclID][]symbols.SymbolID),
		ParamSymbols:       make(map[ast.DeclID][]symbols.SymbolID),
		LoopVarSymbols:     make(map[ast.StmtID]symbols.SymbolID),
		InstantiationDecls: make(map[ast.DeclID]ast.DeclID),
	}

	var names []string
	for _, eu := range units {
		unitLabel := c.Strings.Spelling(eu.Name)
		names = append(names, unitLabel)
		emit(c.Progress, unitLabel, StageResolve, StatusWorking, nil, 0)
		res := sr.ResolveFile(&ast.File{Units: []ast.Unit{eu.Unit}})
		mergeResult(&merged, res)
		c.registerLibraryUnit(eu.Name, unitSymbolKind(c.Builder, eu.Unit))
		if c.Bag.HasErrors() {
			emit(c.Progress, unitLabel, StageResolve, StatusError, fmt.Errorf("resolution errors"), 0)
			break
		}
		emit(c.Progress, unitLabel, StageResolve, StatusDone, nil, 0)
	}

	root := units[len(units)-1]
	rootLabel := c.Strings.Spelling(root.Name)
	var llvmText string
	var aliFile *ali.File
	if !c.Bag.HasErrors() {
		emit(c.Progress, rootLabel, StageLower, StatusWorking, nil, 0)
		irb := ir.New(c.Builder, &merged, c.Symbols, c.Types)
		irb.UnitName = rootLabel
		irb.BuildUnit(root.Unit.Decl)
		text, emitErr := ir.EmitModule(irb.Module())
		if emitErr != nil {
			emit(c.Progress, rootLabel, StageLower, StatusError, emitErr, 0)
			return nil, fmt.Errorf("IR emission: %w", emitErr)
		}
		llvmText = text
		aliFile = c.buildALI(root, &merged)
		emit(c.Progress, rootLabel, StageLower, StatusDone, nil, time.Since(start))
	}

	return &Result{
		LLVM:      llvmText,
		ALI:       aliFile,
		Elapsed:   time.Since(start),
		UnitNames: names,
	}, nil
}

func mergeResult(dst *sema.Result, src *sema.Result) {
	if src == nil {
		return
	}
	for k, v := range src.ExprTypes {
		dst.ExprTypes[k] = v
	}
	for k, v := range src.ExprSymbols {
		dst.ExprSymbols[k] = v
	}
	for k, v := range src.DeclSymbols {
		dst.DeclSymbols[k] = v
	}
	for k, v := range src.UnitScopes {
		dst.UnitScopes[k] = v
	}
	for k, v := range src.ObjectSymbols {
		dst.ObjectSymbols[k] = v
	}
	for k, v := range src.ParamSymbols {
		dst.ParamSymbols[k] = v
	}
	for k, v := range src.LoopVarSymbols {
		dst.LoopVarSymbols[k] = v
	}
	for k, v := range src.InstantiationDecls {
		dst.InstantiationDecls[k] = v
	}
}

func unitSymbolKind(b *ast.Builder, u ast.Unit) symbols.Kind {
	switch u.Kind {
	case ast.UnitPackageSpec, ast.UnitPackageBody:
		return symbols.KindPackage
	case ast.UnitSubprogramSpec:
		if b.Decls.SubprogramSpec(u.Decl).IsFunction {
			return symbols.KindFunction
		}
		return symbols.KindProcedure
	case ast.UnitSubprogramBody:
		body := b.Decls.SubprogramBody(u.Decl)
		if spec := b.Decls.SubprogramSpec(body.Spec); spec != nil && spec.IsFunction {
			return symbols.KindFunction
		}
		return symbols.KindProcedure
	}
	return symbols.KindInvalid
}

// buildALI assembles the interface descriptor for root: its with'd
// units and the exported subprogram signatures a depending unit's .ali
// record needs (§6).
func (c *Context) buildALI(root elaborationUnit, res *sema.Result) *ali.File {
	f := &ali.File{
		Version: "1",
		Unit:    c.Strings.Spelling(root.Name),
	}
	for _, w := range root.Unit.Context.Withs {
		f.Withs = append(f.Withs, ali.With{Unit: c.Strings.Spelling(w.Name), MTime: 0})
		f.Depends = append(f.Depends, c.Strings.Spelling(w.Name))
	}

	unitLabel := c.Strings.Spelling(root.Name)
	specs := exportedSpecs(c.Builder, root.Unit)
	for _, specID := range specs {
		spec := c.Builder.Decls.SubprogramSpec(specID)
		if spec == nil {
			continue
		}
		mangled := unitLabel + "__" + c.Strings.Spelling(spec.Name)
		if sym, ok := res.DeclSymbols[specID]; ok && sym != symbols.NoSymbolID {
			mangled = symbols.Mangle(unitLabel, c.Strings, c.Symbols.Get(sym))
		}
		exp := ali.Export{MangledName: mangled}
		exp.Return = ali.ArgVoid
		if spec.IsFunction {
			exp.Return = c.argKindOf(spec.ReturnType)
		}
		for _, p := range spec.Params {
			k := c.argKindOf(p.Type)
			for range p.Names {
				exp.Args = append(exp.Args, k)
			}
		}
		f.Exports = append(f.Exports, exp)
	}
	return f
}

// exportedSpecs collects the public subprogram specs a unit exposes to
// a with'ing unit: a package spec's public part, or a standalone
// subprogram spec/body itself.
func exportedSpecs(b *ast.Builder, u ast.Unit) []ast.DeclID {
	switch u.Kind {
	case ast.UnitPackageSpec:
		var out []ast.DeclID
		for _, d := range b.Decls.PackageSpec(u.Decl).Public {
			if node := b.Decls.Get(d); node != nil && node.Kind == ast.DeclSubprogramSpec {
				out = append(out, d)
			}
		}
		return out
	case ast.UnitSubprogramSpec:
		return []ast.DeclID{u.Decl}
	case ast.UnitSubprogramBody:
		return []ast.DeclID{b.Decls.SubprogramBody(u.Decl).Spec}
	}
	return nil
}

func (c *Context) argKindOf(te ast.TypeExprID) ali.ArgKind {
	if te == ast.NoTypeExprID {
		return ali.ArgVoid
	}
	// The subprogram spec's type expressions were never independently
	// elaborated outside a body scope; fall back to a best-effort mark
	// name check since the resolver's TypeID isn't attached to a bare
	// TypeExprID. Exact-width scalar kinds are what the ABI cares about.
	node := c.Builder.TypeExprs.Get(te)
	if node == nil || node.Kind != ast.TypeMark {
		return ali.ArgI64
	}
	mark := c.Builder.TypeExprs.Mark(te)
	switch c.Strings.Spelling(mark.Name) {
	case "FLOAT", "LONG_FLOAT", "DURATION":
		return ali.ArgDouble
	case "STRING":
		return ali.ArgPtr
	default:
		return ali.ArgI64
	}
}
