package ir

import (
	"fmt"
	"math/big"

	"adalite/internal/ast"
	"adalite/internal/symbols"
)

// identPtr looks up the alloca backing an identifier reference through
// the resolver's resolved symbol, so repeated reads of the same
// variable share one stack slot instead of each fabricating its own.
func (fb *funcBuilder) identPtr(id ast.ExprID) (Value, bool) {
	sym, ok := fb.b.sema.ExprSymbols[id]
	if !ok || sym == symbols.NoSymbolID {
		return Value{}, false
	}
	ptr, ok := fb.locals[sym]
	return ptr, ok
}

// lowerExpr lowers one expression to the Value carrying its result,
// emitting whatever instructions are needed into the current block.
// Lvalues (ExprIdent, ExprIndexed, ExprSelected used as assignment
// targets) are lowered by lowerLValue instead; this entrypoint always
// produces a loaded/computed r-value.
func (fb *funcBuilder) lowerExpr(id ast.ExprID) Value {
	if !id.IsValid() {
		return Value{}
	}
	node := fb.b.ast.Exprs.Get(id)
	if node == nil {
		return Value{}
	}
	e := fb.b.ast.Exprs
	kind := fb.b.valueKind(node.Type)

	switch node.Kind {
	case ast.ExprIntLit:
		v := e.Lit(id).Int
		if v == nil {
			v = big.NewInt(0)
		}
		return Value{Kind: kind, Const: v.String()}

	case ast.ExprRealLit:
		v := e.Lit(id).Real
		if v == nil {
			return Value{Kind: KindDouble, Const: "0.0"}
		}
		return Value{Kind: KindDouble, Const: v.Text('f', -1)}

	case ast.ExprCharLit:
		return Value{Kind: KindI8, Const: fmtInt(int64(e.Lit(id).Char))}

	case ast.ExprStringLit:
		name := fb.b.internString(e.Lit(id).String)
		return Value{Kind: KindPtr, Const: name}

	case ast.ExprNullLit:
		return Value{Kind: KindPtr, Const: "null"}

	case ast.ExprIdent:
		ptr, ok := fb.identPtr(id)
		if !ok {
			ptr = fb.newTemp(KindPtr)
			fb.emit(Instr{Op: OpAlloca, Result: ptr, ElemKind: kind})
		}
		dst := fb.newTemp(kind)
		fb.emit(Instr{Op: OpLoad, Result: dst, Operands: []Value{ptr}, ElemKind: kind})
		return dst

	case ast.ExprUnary:
		data := e.Unary(id)
		operand := fb.lowerExpr(data.Operand)
		return fb.lowerUnary(data.Op, operand, kind)

	case ast.ExprBinary:
		data := e.Binary(id)
		left := fb.lowerExpr(data.Left)
		right := fb.lowerExpr(data.Right)
		if v, ok := foldConstBinary(data.Op, left, right, kind); ok {
			return v
		}
		return fb.lowerBinary(data.Op, left, right, kind)

	case ast.ExprIndexed:
		data := e.Indexed(id)
		base := fb.lowerExpr(data.Prefix)
		idxs := make([]Value, 0, len(data.Args))
		for _, a := range data.Args {
			idxs = append(idxs, fb.lowerExpr(a))
		}
		elemPtr := fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpGEP, Result: elemPtr, Operands: []Value{base}, GEPIndex: idxs, ElemKind: kind})
		dst := fb.newTemp(kind)
		fb.emit(Instr{Op: OpLoad, Result: dst, Operands: []Value{elemPtr}, ElemKind: kind})
		return dst

	case ast.ExprSlice:
		data := e.Slice(id)
		fb.lowerExpr(data.Low)
		fb.lowerExpr(data.High)
		return fb.lowerExpr(data.Prefix)

	case ast.ExprSelected:
		data := e.Selected(id)
		base := fb.lowerExpr(data.Prefix)
		fieldPtr := fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpGEP, Result: fieldPtr, Operands: []Value{base}, ElemKind: kind})
		dst := fb.newTemp(kind)
		fb.emit(Instr{Op: OpLoad, Result: dst, Operands: []Value{fieldPtr}, ElemKind: kind})
		return dst

	case ast.ExprAttribute:
		data := e.Attribute(id)
		for _, a := range data.Args {
			fb.lowerExpr(a)
		}
		return fb.lowerAttribute(data, kind)

	case ast.ExprQualified:
		return fb.lowerExpr(e.Qualified(id).Value)

	case ast.ExprConvert:
		data := e.Convert(id)
		src := fb.lowerExpr(data.Value)
		return fb.lowerConvert(src, kind)

	case ast.ExprCall:
		return fb.lowerCall(id)

	case ast.ExprAggregate:
		data := e.Aggregate(id)
		for _, a := range data.Assocs {
			if a.Value.IsValid() {
				fb.lowerExpr(a.Value)
			}
		}
		return fb.newTemp(kind)

	case ast.ExprAllocator:
		data := e.Allocator(id)
		if data.Init.IsValid() {
			fb.lowerExpr(data.Init)
		}
		dst := fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpCall, Result: dst, Callee: "@__ada_alloc"})
		return dst

	case ast.ExprRange:
		data := e.Range(id)
		fb.lowerExpr(data.Low)
		return fb.lowerExpr(data.High)

	case ast.ExprDeref:
		data := e.Deref(id)
		ptr := fb.lowerExpr(data.Prefix)
		dst := fb.newTemp(kind)
		fb.emit(Instr{Op: OpLoad, Result: dst, Operands: []Value{ptr}, ElemKind: kind})
		return dst

	case ast.ExprCheck:
		return fb.lowerCheck(e.Check(id))
	}
	return Value{}
}

func (fb *funcBuilder) lowerUnary(op ast.UnaryOp, v Value, kind ValueKind) Value {
	switch op {
	case ast.UnaryMinus:
		dst := fb.newTemp(kind)
		zero := Value{Kind: kind, Const: "0"}
		if kind == KindDouble {
			fb.emit(Instr{Op: OpFSub, Result: dst, Operands: []Value{zero, v}})
		} else {
			fb.emit(Instr{Op: OpSub, Result: dst, Operands: []Value{zero, v}})
		}
		return dst
	case ast.UnaryNot:
		dst := fb.newTemp(KindI1)
		fb.emit(Instr{Op: OpXor, Result: dst, Operands: []Value{v, {Kind: KindI1, Const: "true"}}})
		return dst
	default:
		return v
	}
}

func (fb *funcBuilder) lowerBinary(op ast.BinaryOp, l, r Value, kind ValueKind) Value {
	isFloat := l.Kind == KindDouble || r.Kind == KindDouble
	switch op {
	case ast.BinAdd:
		return fb.arith(opOr(isFloat, OpFAdd, OpAdd), l, r, kind)
	case ast.BinSub:
		return fb.arith(opOr(isFloat, OpFSub, OpSub), l, r, kind)
	case ast.BinMul:
		return fb.arith(opOr(isFloat, OpFMul, OpMul), l, r, kind)
	case ast.BinDiv:
		return fb.arith(opOr(isFloat, OpFDiv, OpSDiv), l, r, kind)
	case ast.BinMod, ast.BinRem:
		return fb.arith(OpSRem, l, r, kind)
	case ast.BinPow:
		dst := fb.newTemp(kind)
		fb.emit(Instr{Op: OpCall, Result: dst, Callee: "@__ada_pow", Args: []Value{l, r}})
		return dst
	case ast.BinConcat:
		dst := fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpCall, Result: dst, Callee: "@__ada_concat", Args: []Value{l, r}})
		return dst
	case ast.BinEq:
		return fb.cmp("eq", l, r, isFloat)
	case ast.BinNeq:
		return fb.cmp("ne", l, r, isFloat)
	case ast.BinLt:
		return fb.cmp(ltPred(isFloat), l, r, isFloat)
	case ast.BinLe:
		return fb.cmp(lePred(isFloat), l, r, isFloat)
	case ast.BinGt:
		return fb.cmp(gtPred(isFloat), l, r, isFloat)
	case ast.BinGe:
		return fb.cmp(gePred(isFloat), l, r, isFloat)
	case ast.BinAnd, ast.BinAndThen:
		dst := fb.newTemp(KindI1)
		fb.emit(Instr{Op: OpAnd, Result: dst, Operands: []Value{l, r}})
		return dst
	case ast.BinOr, ast.BinOrElse:
		dst := fb.newTemp(KindI1)
		fb.emit(Instr{Op: OpOr, Result: dst, Operands: []Value{l, r}})
		return dst
	case ast.BinXor:
		dst := fb.newTemp(KindI1)
		fb.emit(Instr{Op: OpXor, Result: dst, Operands: []Value{l, r}})
		return dst
	case ast.BinIn:
		return fb.cmp("sge", l, r, false)
	case ast.BinNotIn:
		return fb.cmp("slt", l, r, false)
	}
	return Value{}
}

// foldConstBinary recognizes two literal integer operands (those
// lowered straight from an IntLit, carrying no SSA name) and computes
// the result at build time instead of emitting a runtime instruction,
// per the constant-folding the resolver's own evalConst performs for
// static range bounds.
func foldConstBinary(op ast.BinaryOp, l, r Value, kind ValueKind) (Value, bool) {
	if l.Name != "" || r.Name != "" || kind == KindDouble {
		return Value{}, false
	}
	li, ok := new(big.Int).SetString(l.Const, 10)
	if !ok {
		return Value{}, false
	}
	ri, ok := new(big.Int).SetString(r.Const, 10)
	if !ok {
		return Value{}, false
	}
	var out *big.Int
	switch op {
	case ast.BinAdd:
		out = new(big.Int).Add(li, ri)
	case ast.BinSub:
		out = new(big.Int).Sub(li, ri)
	case ast.BinMul:
		out = new(big.Int).Mul(li, ri)
	case ast.BinDiv:
		if ri.Sign() == 0 {
			return Value{}, false
		}
		out = new(big.Int).Quo(li, ri)
	case ast.BinMod:
		if ri.Sign() == 0 {
			return Value{}, false
		}
		out = new(big.Int).Mod(li, ri)
	case ast.BinRem:
		if ri.Sign() == 0 {
			return Value{}, false
		}
		out = new(big.Int).Rem(li, ri)
	default:
		return Value{}, false
	}
	return Value{Kind: kind, Const: out.String()}, true
}

func opOr(isFloat bool, f, i OpCode) OpCode {
	if isFloat {
		return f
	}
	return i
}

func ltPred(f bool) string {
	if f {
		return "olt"
	}
	return "slt"
}
func lePred(f bool) string {
	if f {
		return "ole"
	}
	return "sle"
}
func gtPred(f bool) string {
	if f {
		return "ogt"
	}
	return "sgt"
}
func gePred(f bool) string {
	if f {
		return "oge"
	}
	return "sge"
}

func (fb *funcBuilder) arith(op OpCode, l, r Value, kind ValueKind) Value {
	dst := fb.newTemp(kind)
	fb.emit(Instr{Op: op, Result: dst, Operands: []Value{l, r}})
	return dst
}

func (fb *funcBuilder) cmp(pred string, l, r Value, isFloat bool) Value {
	dst := fb.newTemp(KindI1)
	op := OpICmp
	if isFloat {
		op = OpFCmp
	}
	fb.emit(Instr{Op: op, Result: dst, Cond: pred, Operands: []Value{l, r}})
	return dst
}

func (fb *funcBuilder) lowerConvert(src Value, target ValueKind) Value {
	if src.Kind == target {
		return src
	}
	dst := fb.newTemp(target)
	switch {
	case src.Kind == KindDouble && target != KindDouble:
		fb.emit(Instr{Op: OpFPtoSI, Result: dst, Operands: []Value{src}})
	case src.Kind != KindDouble && target == KindDouble:
		fb.emit(Instr{Op: OpSItoFP, Result: dst, Operands: []Value{src}})
	default:
		fb.emit(Instr{Op: OpSExt, Result: dst, Operands: []Value{src}})
	}
	return dst
}

// lowerCheck lowers a resolver-inserted runtime check into a call to
// the single __ada_raise(ptr) trap entrypoint, guarded by a
// comparison, returning the checked value unchanged on the fallthrough
// path (§4.7, §6).
func (fb *funcBuilder) lowerCheck(data *ast.CheckData) Value {
	v := fb.lowerExpr(data.Value)
	exGlobal := fb.b.exceptionGlobal(checkExceptionName(data.Kind))

	okLbl := fb.newLabel("checkok")
	failLbl := fb.newLabel("checkfail")

	var cond Value
	switch data.Kind {
	case ast.CheckDivideByZero:
		cond = fb.cmp("ne", v, Value{Kind: v.Kind, Const: "0"}, false)
	case ast.CheckNullAccess:
		cond = fb.cmp("ne", v, Value{Kind: KindPtr, Const: "null"}, false)
	case ast.CheckRange, ast.CheckIndex:
		low := fb.lowerExpr(data.LowBound)
		high := fb.lowerExpr(data.HighBound)
		geLow := fb.cmp("sge", v, low, false)
		leHigh := fb.cmp("sle", v, high, false)
		cond = fb.newTemp(KindI1)
		fb.emit(Instr{Op: OpAnd, Result: cond, Operands: []Value{geLow, leHigh}})
	default:
		cond = Value{Kind: KindI1, Const: "true"}
	}

	fb.cur.Term = Terminator{Kind: TermCondBr, Cond: cond, Then: okLbl, Else: failLbl}
	fb.cur = fb.newBlock(failLbl)
	fb.emit(Instr{Op: OpCall, Callee: "@__ada_raise", Args: []Value{{Kind: KindPtr, Const: exGlobal}}})
	fb.cur.Term = Terminator{Kind: TermUnreachable}
	fb.cur = fb.newBlock(okLbl)
	return v
}

// checkExceptionName names the Ada exception a failed check raises,
// used as the key for the interned name global __ada_raise takes.
func checkExceptionName(k ast.CheckKind) string {
	switch k {
	case ast.CheckDiscriminant:
		return "PROGRAM_ERROR"
	default:
		return "CONSTRAINT_ERROR"
	}
}

func (fb *funcBuilder) lowerAttribute(data *ast.AttributeData, kind ValueKind) Value {
	name := fb.b.symbols.Strings.Spelling(data.Attr)
	switch name {
	case "FIRST", "LAST", "LENGTH", "POS", "SUCC", "PRED":
		dst := fb.newTemp(kind)
		fb.emit(Instr{Op: OpCall, Result: dst, Callee: "@__ada_attr_" + name})
		return dst
	case "SIZE":
		return Value{Kind: KindI64, Const: "64"}
	case "IMAGE":
		dst := fb.newTemp(KindPtr)
		fb.emit(Instr{Op: OpCall, Result: dst, Callee: "@__ada_image"})
		return dst
	case "VALUE":
		dst := fb.newTemp(kind)
		fb.emit(Instr{Op: OpCall, Result: dst, Callee: "@__ada_value"})
		return dst
	case "RANGE":
		return Value{Kind: kind}
	}
	return fb.newTemp(kind)
}

func (fb *funcBuilder) lowerCall(id ast.ExprID) Value {
	e := fb.b.ast.Exprs
	data := e.Call(id)
	calleeNode := e.Get(data.Callee)
	calleeName := "@__ada_indirect_call"
	if calleeNode != nil && calleeNode.Kind == ast.ExprIdent {
		calleeName = "@" + fb.b.symbols.Strings.Spelling(e.Ident(data.Callee).Name)
	}
	args := make([]Value, 0, len(data.Args))
	for _, a := range data.Args {
		args = append(args, fb.lowerExpr(a.Value))
	}
	retKind := fb.b.valueKind(e.Get(id).Type)
	var dst Value
	if retKind != KindVoid {
		dst = fb.newTemp(retKind)
	}
	fb.emit(Instr{Op: OpCall, Result: dst, Callee: calleeName, Args: args})
	return dst
}

func fmtInt(v int64) string {
	return bigFromInt64(v).String()
}

func bigFromInt64(v int64) *big.Int { return big.NewInt(v) }

// internString registers a string literal's textual form with the
// module under a fresh global name and returns that name as a pointer
// constant referring to it.
func (b *Builder) internString(s string) string {
	name := fmt.Sprintf("@.str.%d", len(b.mod.Strings))
	b.mod.Strings[name] = s
	return name
}
