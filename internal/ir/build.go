package ir

import (
	"fmt"

	"adalite/internal/ast"
	"adalite/internal/sema"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// Builder lowers a resolved Builder/Result pair into a Module,
// mirroring the teacher's collect-then-lower emitter shape but
// producing this package's own IR rather than going straight to text,
// so a later pass can still see basic blocks and typed temporaries
// (§4.7).
type Builder struct {
	ast     *ast.Builder
	sema    *sema.Result
	symbols *symbols.Table
	types   *types.Table
	mod     *Module

	// UnitName is the enclosing library unit's link name, used as the
	// parent component of every mangled subprogram name this Builder
	// emits (§6). The driver sets it before calling BuildUnit.
	UnitName string
}

// New creates a Builder over one resolved compilation.
func New(builder *ast.Builder, sr *sema.Result, symTable *symbols.Table, typeTable *types.Table) *Builder {
	return &Builder{ast: builder, sema: sr, symbols: symTable, types: typeTable, mod: NewModule()}
}

// BuildUnit lowers one resolved DeclSubprogramBody or DeclPackageBody
// into the Module, appending its functions and globals.
func (b *Builder) BuildUnit(declID ast.DeclID) {
	decl := b.ast.Decls.Get(declID)
	if decl == nil {
		return
	}
	switch decl.Kind {
	case ast.DeclSubprogramBody:
		b.buildSubprogram(declID)
	case ast.DeclPackageBody:
		data := b.ast.Decls.PackageBody(declID)
		for _, d := range data.Decls {
			b.BuildUnit(d)
		}
	case ast.DeclPackageSpec:
		data := b.ast.Decls.PackageSpec(declID)
		for _, d := range data.Public {
			b.BuildUnit(d)
		}
	case ast.DeclGenericInstantiation:
		if inst, ok := b.sema.InstantiationDecls[declID]; ok {
			b.BuildUnit(inst)
		}
	}
}

// Module returns the Module accumulated so far.
func (b *Builder) Module() *Module { return b.mod }

// exceptionGlobal interns name (e.g. "CONSTRAINT_ERROR") as a named
// global string constant and returns the pointer constant __ada_raise
// takes to identify which exception to propagate (§6).
func (b *Builder) exceptionGlobal(name string) string {
	global := "@.ex." + name
	if _, ok := b.mod.Strings[global]; !ok {
		b.mod.Strings[global] = name
	}
	return global
}

func (b *Builder) valueKind(ty types.TypeID) ValueKind {
	t := b.types.Get(ty)
	if t == nil {
		return KindI64
	}
	switch b.types.SemanticBase(ty) {
	case types.KindFloat:
		return KindDouble
	case types.KindBoolean:
		return KindI1
	case types.KindCharacter:
		return KindI8
	}
	switch t.Kind {
	case types.KindAccess, types.KindArray, types.KindString, types.KindRecord, types.KindFatPointer:
		return KindPtr
	}
	return KindI64
}

type funcBuilder struct {
	b        *Builder
	f        *Func
	cur      *Block
	tmp      int
	lbl      int
	locals   map[symbols.SymbolID]Value // alloca pointer per local object
	localTy  map[symbols.SymbolID]ValueKind
	loopExit []string // enclosing loop exit labels, innermost last
}

func (b *Builder) buildSubprogram(declID ast.DeclID) {
	data := b.ast.Decls.SubprogramBody(declID)
	var spec *ast.SubprogramSpecData
	name := fmt.Sprintf("decl%d", declID)
	if data.Spec.IsValid() {
		spec = b.ast.Decls.SubprogramSpec(data.Spec)
		name = b.symbols.Strings.Spelling(spec.Name)
		if sym, ok := b.sema.DeclSymbols[data.Spec]; ok && sym != symbols.NoSymbolID {
			name = symbols.Mangle(b.UnitName, b.symbols.Strings, b.symbols.Get(sym))
		}
	}
	fn := &Func{Name: name}
	fb := &funcBuilder{b: b, f: fn, locals: make(map[symbols.SymbolID]Value), localTy: make(map[symbols.SymbolID]ValueKind)}

	var paramKinds []ValueKind
	if spec != nil {
		for _, p := range spec.Params {
			for _, pn := range p.Names {
				pty := b.valueKindOfTypeExpr(p.Type)
				fn.Params = append(fn.Params, Param{Name: b.symbols.Strings.Spelling(pn), Kind: pty})
				paramKinds = append(paramKinds, pty)
			}
		}
		if spec.IsFunction {
			fn.RetKind = b.valueKindOfTypeExpr(spec.ReturnType)
		}
	}

	fb.cur = fb.newBlock("entry")

	// Each formal gets its own alloca so the body can read/update it
	// like any other local, with the incoming argument stored in on
	// entry; paramSyms zips with fn.Params/paramKinds positionally,
	// since both walk the same spec.Params/Names nesting.
	paramSyms := b.sema.ParamSymbols[declID]
	for i, sym := range paramSyms {
		if i >= len(fn.Params) {
			break
		}
		ptr := fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpAlloca, Result: ptr, ElemKind: paramKinds[i]})
		fb.emit(Instr{Op: OpStore, Operands: []Value{{Kind: paramKinds[i], Name: "%" + fn.Params[i].Name}, ptr}})
		fb.locals[sym] = ptr
		fb.localTy[sym] = paramKinds[i]
	}

	for _, d := range data.Decls {
		fb.lowerDecl(d)
	}
	for _, s := range data.Body {
		fb.lowerStmt(s)
	}
	if fb.cur.Term.Kind == TermRet && fb.cur.Term.Value.Kind == KindVoid && fn.RetKind == KindVoid {
		// already terminated with a void return by an explicit `return;`
	} else if len(fb.cur.Instr) > 0 || fb.cur.Term.Kind == 0 {
		fb.cur.Term = Terminator{Kind: TermRet, Value: Value{Kind: fn.RetKind}}
	}
	fn.Blocks = append(fn.Blocks, fb.blocksInOrder()...)
	b.mod.Funcs = append(b.mod.Funcs, fn)
}

func (b *Builder) valueKindOfTypeExpr(id ast.TypeExprID) ValueKind {
	// The resolver already folded type marks into symbol types; the IR
	// builder only needs the mark's name to re-look-up the frozen type,
	// since TypeExprID payloads are not retained past resolution here.
	if !id.IsValid() {
		return KindVoid
	}
	node := b.ast.TypeExprs.Get(id)
	if node == nil || node.Kind != ast.TypeMark {
		return KindI64
	}
	mark := b.ast.TypeExprs.Mark(id)
	sym := b.symbols.Lookup(b.symbols.Current(), mark.Name)
	if sym == symbols.NoSymbolID {
		return KindI64
	}
	s := b.symbols.Get(sym)
	if s == nil {
		return KindI64
	}
	return b.valueKind(s.Type)
}

func (fb *funcBuilder) newBlock(label string) *Block {
	bl := &Block{Label: label}
	fb.f.Blocks = append(fb.f.Blocks, bl)
	return bl
}

func (fb *funcBuilder) blocksInOrder() []*Block { return fb.f.Blocks }

func (fb *funcBuilder) newTemp(kind ValueKind) Value {
	fb.tmp++
	return Value{Kind: kind, Name: fmt.Sprintf("%%t%d", fb.tmp)}
}

func (fb *funcBuilder) newLabel(prefix string) string {
	fb.lbl++
	return fmt.Sprintf("%s%d", prefix, fb.lbl)
}

func (fb *funcBuilder) emit(instr Instr) Value {
	fb.cur.Instr = append(fb.cur.Instr, instr)
	return instr.Result
}

func (fb *funcBuilder) lowerDecl(id ast.DeclID) {
	decl := fb.b.ast.Decls.Get(id)
	if decl == nil {
		return
	}
	if decl.Kind == ast.DeclGenericInstantiation {
		if inst, ok := fb.b.sema.InstantiationDecls[id]; ok {
			fb.lowerDecl(inst)
		}
		return
	}
	if decl.Kind != ast.DeclObject {
		return
	}
	data := fb.b.ast.Decls.Object(id)
	declTy := fb.b.valueKindOfTypeExpr(data.Type)

	var init Value
	hasInit := data.Init.IsValid()
	if hasInit {
		init = fb.lowerExpr(data.Init)
	}

	syms := fb.b.sema.ObjectSymbols[id]
	for i := range data.Names {
		ptr := fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpAlloca, Result: ptr, ElemKind: declTy})
		if i < len(syms) {
			fb.locals[syms[i]] = ptr
			fb.localTy[syms[i]] = declTy
		}
		if hasInit {
			fb.emit(Instr{Op: OpStore, Operands: []Value{init, ptr}})
		}
	}
}

func (fb *funcBuilder) lowerStmt(id ast.StmtID) {
	decl := fb.b.ast.Stmts.Get(id)
	if decl == nil {
		return
	}
	s := fb.b.ast.Stmts
	switch decl.Kind {
	case ast.StmtNull, ast.StmtLabel:

	case ast.StmtAssign:
		data := s.Assign(id)
		val := fb.lowerExpr(data.Value)
		ptr := fb.lowerLValue(data.Target)
		fb.emit(Instr{Op: OpStore, Operands: []Value{val, ptr}})

	case ast.StmtIf:
		fb.lowerIf(s.If(id))

	case ast.StmtCase:
		fb.lowerCase(s.Case(id))

	case ast.StmtLoop:
		fb.lowerLoop(id, s.Loop(id))

	case ast.StmtBlock:
		data := s.Block(id)
		for _, d := range data.Decls {
			fb.lowerDecl(d)
		}
		for _, st := range data.Body {
			fb.lowerStmt(st)
		}

	case ast.StmtExit:
		data := s.Exit(id)
		if len(fb.loopExit) > 0 {
			target := fb.loopExit[len(fb.loopExit)-1]
			if data.Cond.IsValid() {
				cond := fb.lowerExpr(data.Cond)
				cont := fb.newLabel("exitcont")
				fb.cur.Term = Terminator{Kind: TermCondBr, Cond: cond, Then: target, Else: cont}
				fb.cur = fb.newBlock(cont)
			} else {
				fb.cur.Term = Terminator{Kind: TermBr, Then: target}
				fb.cur = fb.newBlock(fb.newLabel("afterexit"))
			}
		}

	case ast.StmtReturn:
		data := s.Return(id)
		if data.Value.IsValid() {
			v := fb.lowerExpr(data.Value)
			fb.cur.Term = Terminator{Kind: TermRet, Value: v}
		} else {
			fb.cur.Term = Terminator{Kind: TermRet}
		}
		fb.cur = fb.newBlock(fb.newLabel("afterreturn"))

	case ast.StmtGoto, ast.StmtRaise:
		// goto and raise statements are not lowered: no instruction is
		// emitted for them, and no later step adds one.

	case ast.StmtProcCall:
		data := s.ProcCall(id)
		fb.lowerExpr(data.Call)
	}
}

func (fb *funcBuilder) lowerIf(data *ast.IfData) {
	endLbl := fb.newLabel("ifend")
	for i, branch := range data.Branches {
		cond := fb.lowerExpr(branch.Cond)
		thenLbl := fb.newLabel("then")
		elseLbl := endLbl
		if i < len(data.Branches)-1 || len(data.Else) > 0 {
			elseLbl = fb.newLabel("elsif")
		}
		fb.cur.Term = Terminator{Kind: TermCondBr, Cond: cond, Then: thenLbl, Else: elseLbl}
		fb.cur = fb.newBlock(thenLbl)
		for _, st := range branch.Body {
			fb.lowerStmt(st)
		}
		fb.cur.Term = Terminator{Kind: TermBr, Then: endLbl}
		fb.cur = fb.newBlock(elseLbl)
	}
	for _, st := range data.Else {
		fb.lowerStmt(st)
	}
	fb.cur.Term = Terminator{Kind: TermBr, Then: endLbl}
	fb.cur = fb.newBlock(endLbl)
}

func (fb *funcBuilder) lowerCase(data *ast.CaseData) {
	selector := fb.lowerExpr(data.Selector)
	endLbl := fb.newLabel("caseend")
	for _, arm := range data.Arms {
		armLbl := fb.newLabel("when")
		nextLbl := fb.newLabel("when")
		var cond Value
		for i, choice := range arm.Choices {
			cv := fb.lowerExpr(choice)
			eq := fb.newTemp(KindI1)
			fb.emit(Instr{Op: OpICmp, Cond: "eq", Result: eq, Operands: []Value{selector, cv}})
			if i == 0 {
				cond = eq
			} else {
				combined := fb.newTemp(KindI1)
				fb.emit(Instr{Op: OpOr, Result: combined, Operands: []Value{cond, eq}})
				cond = combined
			}
		}
		if arm.Others {
			cond = Value{Kind: KindI1, Const: "true"}
		}
		fb.cur.Term = Terminator{Kind: TermCondBr, Cond: cond, Then: armLbl, Else: nextLbl}
		fb.cur = fb.newBlock(armLbl)
		for _, st := range arm.Body {
			fb.lowerStmt(st)
		}
		fb.cur.Term = Terminator{Kind: TermBr, Then: endLbl}
		fb.cur = fb.newBlock(nextLbl)
	}
	fb.cur.Term = Terminator{Kind: TermBr, Then: endLbl}
	fb.cur = fb.newBlock(endLbl)
}

func (fb *funcBuilder) lowerLoop(id ast.StmtID, data *ast.LoopData) {
	headLbl := fb.newLabel("loophead")
	bodyLbl := fb.newLabel("loopbody")
	stepLbl := fb.newLabel("loopstep")
	endLbl := fb.newLabel("loopend")

	var indVar Value
	var low, high Value
	isFor := data.Scheme == ast.LoopFor

	if isFor {
		// Materialize the induction variable ahead of the loop head so
		// it is one alloca shared by the bound check, the body, and the
		// step block, instead of a fresh value fabricated per reference.
		low, high = fb.forRangeBounds(data.ForRange)
		indVar = fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpAlloca, Result: indVar, ElemKind: low.Kind})
		init := low
		if data.Reverse {
			init = high
		}
		fb.emit(Instr{Op: OpStore, Operands: []Value{init, indVar}})
		if sym, ok := fb.b.sema.LoopVarSymbols[id]; ok && sym != symbols.NoSymbolID {
			fb.locals[sym] = indVar
			fb.localTy[sym] = low.Kind
		}
	}

	fb.cur.Term = Terminator{Kind: TermBr, Then: headLbl}
	fb.cur = fb.newBlock(headLbl)

	switch data.Scheme {
	case ast.LoopWhile:
		cond := fb.lowerExpr(data.Cond)
		fb.cur.Term = Terminator{Kind: TermCondBr, Cond: cond, Then: bodyLbl, Else: endLbl}
	case ast.LoopFor:
		cur := fb.newTemp(low.Kind)
		fb.emit(Instr{Op: OpLoad, Result: cur, Operands: []Value{indVar}, ElemKind: low.Kind})
		pred := "sle"
		if data.Reverse {
			pred = "sge"
		}
		cond := fb.cmp(pred, cur, boundFor(data.Reverse, low, high), false)
		fb.cur.Term = Terminator{Kind: TermCondBr, Cond: cond, Then: bodyLbl, Else: endLbl}
	default:
		fb.cur.Term = Terminator{Kind: TermBr, Then: bodyLbl}
	}
	fb.cur = fb.newBlock(bodyLbl)

	fb.loopExit = append(fb.loopExit, endLbl)
	for _, st := range data.Body {
		fb.lowerStmt(st)
	}
	fb.loopExit = fb.loopExit[:len(fb.loopExit)-1]

	if isFor {
		fb.cur.Term = Terminator{Kind: TermBr, Then: stepLbl}
		fb.cur = fb.newBlock(stepLbl)
		cur := fb.newTemp(low.Kind)
		fb.emit(Instr{Op: OpLoad, Result: cur, Operands: []Value{indVar}, ElemKind: low.Kind})
		next := fb.newTemp(low.Kind)
		step := Value{Kind: low.Kind, Const: "1"}
		stepOp := OpAdd
		if data.Reverse {
			stepOp = OpSub
		}
		fb.emit(Instr{Op: stepOp, Result: next, Operands: []Value{cur, step}})
		fb.emit(Instr{Op: OpStore, Operands: []Value{next, indVar}})
	}

	fb.cur.Term = Terminator{Kind: TermBr, Then: headLbl}
	fb.cur = fb.newBlock(endLbl)
}

// forRangeBounds lowers a `for` loop's range expression to its low and
// high bound values, without otherwise evaluating the range as an
// r-value the way a plain expression statement would.
func (fb *funcBuilder) forRangeBounds(id ast.ExprID) (low, high Value) {
	node := fb.b.ast.Exprs.Get(id)
	if node != nil && node.Kind == ast.ExprRange {
		data := fb.b.ast.Exprs.Range(id)
		return fb.lowerExpr(data.Low), fb.lowerExpr(data.High)
	}
	v := fb.lowerExpr(id)
	return v, v
}

func boundFor(reverse bool, low, high Value) Value {
	if reverse {
		return low
	}
	return high
}

// lowerLValue resolves the pointer an assignment target or .all deref
// writes through. A resolved identifier yields its local's alloca and
// an identifier with no local yields a fresh ptr temporary; any other
// target goes through lowerExpr, which yields its loaded value, not an
// address (no record/array address computation is done).
func (fb *funcBuilder) lowerLValue(id ast.ExprID) Value {
	node := fb.b.ast.Exprs.Get(id)
	if node != nil && node.Kind == ast.ExprIdent {
		if sym, ok := fb.b.sema.ExprSymbols[id]; ok && sym != symbols.NoSymbolID {
			if ptr, ok := fb.locals[sym]; ok {
				return ptr
			}
		}
		return fb.newTemp(KindPtr)
	}
	return fb.lowerExpr(id)
}
