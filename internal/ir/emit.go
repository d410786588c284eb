package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Emitter walks a Module and renders it as textual LLVM IR, mirroring
// the collect-then-emit phase split a textual backend needs: string
// constants and globals get stable names before any function body is
// printed, since a call or GEP inside one function may reference a
// global declared after it in source order.
type Emitter struct {
	mod *Module
	buf strings.Builder

	stringNames map[string]string // literal text -> @-prefixed global name, de-duplicated
}

// EmitModule renders mod as a complete LLVM IR text module.
func EmitModule(mod *Module) (string, error) {
	e := &Emitter{mod: mod, stringNames: make(map[string]string)}
	if mod == nil {
		return "", nil
	}
	e.collectStringConsts()
	e.emitPreamble()
	e.emitRuntimeDecls()
	e.emitStringConsts()
	e.emitGlobals()
	e.emitFunctions()
	return e.buf.String(), nil
}

func (e *Emitter) collectStringConsts() {
	for name, text := range e.mod.Strings {
		e.stringNames[text] = name
	}
}

func (e *Emitter) emitPreamble() {
	e.buf.WriteString("target triple = \"x86_64-unknown-linux-gnu\"\n\n")
}

// runtimeDecl is one forward declaration the emitted module depends on:
// every trap/helper name the IR builder may have referenced in an
// ExprCheck or attribute/call lowering (§4.7).
type runtimeDecl struct {
	name   string
	ret    string
	params string
}

func runtimeDecls() []runtimeDecl {
	return []runtimeDecl{
		{"__ada_raise", "void", "ptr"},
		{"__ada_alloc", "ptr", ""},
		{"__ada_concat", "ptr", "ptr, ptr"},
		{"__ada_pow", "i64", "i64, i64"},
		{"__ada_image", "ptr", "i64"},
		{"__ada_value", "i64", "ptr"},
	}
}

func (e *Emitter) emitRuntimeDecls() {
	for _, d := range runtimeDecls() {
		fmt.Fprintf(&e.buf, "declare %s @%s(%s)\n", d.ret, d.name, d.params)
	}
	e.buf.WriteString("\n")
}

func (e *Emitter) emitStringConsts() {
	names := make([]string, 0, len(e.mod.Strings))
	for name := range e.mod.Strings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		text := e.mod.Strings[name]
		escaped, length := escapeLLVMString(text)
		fmt.Fprintf(&e.buf, "%s = private unnamed_addr constant [%d x i8] c\"%s\"\n", name, length, escaped)
	}
	if len(names) > 0 {
		e.buf.WriteString("\n")
	}
}

func escapeLLVMString(s string) (string, int) {
	var b strings.Builder
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "\\%02X", c)
		}
		n++
	}
	b.WriteString("\\00")
	return b.String(), n + 1
}

func (e *Emitter) emitGlobals() {
	for _, g := range e.mod.Globals {
		init := g.Init
		if init == "" {
			init = "zeroinitializer"
		}
		fmt.Fprintf(&e.buf, "@%s = global %s %s\n", g.Name, g.Kind, init)
	}
	if len(e.mod.Globals) > 0 {
		e.buf.WriteString("\n")
	}
}

func (e *Emitter) emitFunctions() {
	for _, f := range e.mod.Funcs {
		e.emitFunc(f)
	}
}

func (e *Emitter) emitFunc(f *Func) {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, fmt.Sprintf("%s %%%s", p.Kind, p.Name))
	}
	fmt.Fprintf(&e.buf, "define %s @%s(%s) {\n", f.RetKind, f.Name, strings.Join(params, ", "))
	for _, b := range f.Blocks {
		e.emitBlock(b)
	}
	e.buf.WriteString("}\n\n")
}

func (e *Emitter) emitBlock(b *Block) {
	fmt.Fprintf(&e.buf, "%s:\n", b.Label)
	for _, instr := range b.Instr {
		e.emitInstr(instr)
	}
	e.emitTerm(b.Term)
}

func operand(v Value) string {
	if v.Name != "" {
		return fmt.Sprintf("%s %s", v.Kind, v.Name)
	}
	return fmt.Sprintf("%s %s", v.Kind, v.Const)
}

func (e *Emitter) emitInstr(in Instr) {
	indent := "  "
	dst := ""
	if in.Result.Name != "" {
		dst = in.Result.Name + " = "
	}
	switch in.Op {
	case OpAlloca:
		fmt.Fprintf(&e.buf, "%s%salloca %s\n", indent, dst, in.ElemKind)
	case OpLoad:
		fmt.Fprintf(&e.buf, "%s%sload %s, %s\n", indent, dst, in.ElemKind, operand(in.Operands[0]))
	case OpStore:
		fmt.Fprintf(&e.buf, "%sstore %s, %s\n", indent, operand(in.Operands[0]), operand(in.Operands[1]))
	case OpAdd:
		e.emitBinOp(indent, dst, "add", in)
	case OpSub:
		e.emitBinOp(indent, dst, "sub", in)
	case OpMul:
		e.emitBinOp(indent, dst, "mul", in)
	case OpSDiv:
		e.emitBinOp(indent, dst, "sdiv", in)
	case OpSRem:
		e.emitBinOp(indent, dst, "srem", in)
	case OpFAdd:
		e.emitBinOp(indent, dst, "fadd", in)
	case OpFSub:
		e.emitBinOp(indent, dst, "fsub", in)
	case OpFMul:
		e.emitBinOp(indent, dst, "fmul", in)
	case OpFDiv:
		e.emitBinOp(indent, dst, "fdiv", in)
	case OpAnd:
		e.emitBinOp(indent, dst, "and", in)
	case OpOr:
		e.emitBinOp(indent, dst, "or", in)
	case OpXor:
		e.emitBinOp(indent, dst, "xor", in)
	case OpICmp:
		fmt.Fprintf(&e.buf, "%s%sicmp %s %s, %s\n", indent, dst, in.Cond, operand(in.Operands[0]), valOnly(in.Operands[1]))
	case OpFCmp:
		fmt.Fprintf(&e.buf, "%s%sfcmp %s %s, %s\n", indent, dst, in.Cond, operand(in.Operands[0]), valOnly(in.Operands[1]))
	case OpGEP:
		idxs := make([]string, 0, len(in.GEPIndex))
		for _, idx := range in.GEPIndex {
			idxs = append(idxs, operand(idx))
		}
		fmt.Fprintf(&e.buf, "%s%sgetelementptr %s, %s, %s\n", indent, dst, in.ElemKind, operand(in.Operands[0]), strings.Join(idxs, ", "))
	case OpCall:
		args := make([]string, 0, len(in.Args))
		for _, a := range in.Args {
			args = append(args, operand(a))
		}
		retTy := "void"
		if in.Result.Name != "" {
			retTy = in.Result.Kind.String()
		}
		fmt.Fprintf(&e.buf, "%s%scall %s %s(%s)\n", indent, dst, retTy, in.Callee, strings.Join(args, ", "))
	case OpSItoFP:
		fmt.Fprintf(&e.buf, "%s%ssitofp %s to %s\n", indent, dst, operand(in.Operands[0]), in.Result.Kind)
	case OpFPtoSI:
		fmt.Fprintf(&e.buf, "%s%sfptosi %s to %s\n", indent, dst, operand(in.Operands[0]), in.Result.Kind)
	case OpTrunc:
		fmt.Fprintf(&e.buf, "%s%strunc %s to %s\n", indent, dst, operand(in.Operands[0]), in.Result.Kind)
	case OpZExt:
		fmt.Fprintf(&e.buf, "%s%szext %s to %s\n", indent, dst, operand(in.Operands[0]), in.Result.Kind)
	case OpSExt:
		fmt.Fprintf(&e.buf, "%s%ssext %s to %s\n", indent, dst, operand(in.Operands[0]), in.Result.Kind)
	case OpPhi:
		fmt.Fprintf(&e.buf, "%s%sphi %s\n", indent, dst, in.Result.Kind)
	}
}

func (e *Emitter) emitBinOp(indent, dst, mnemonic string, in Instr) {
	fmt.Fprintf(&e.buf, "%s%s%s %s, %s\n", indent, dst, mnemonic, operand(in.Operands[0]), valOnly(in.Operands[1]))
}

func valOnly(v Value) string {
	if v.Name != "" {
		return v.Name
	}
	return v.Const
}

func (e *Emitter) emitTerm(t Terminator) {
	indent := "  "
	switch t.Kind {
	case TermRet:
		if t.Value.Kind == KindVoid {
			e.buf.WriteString(indent + "ret void\n")
		} else {
			fmt.Fprintf(&e.buf, "%sret %s\n", indent, operand(t.Value))
		}
	case TermBr:
		fmt.Fprintf(&e.buf, "%sbr label %%%s\n", indent, t.Then)
	case TermCondBr:
		fmt.Fprintf(&e.buf, "%sbr %s, label %%%s, label %%%s\n", indent, operand(t.Cond), t.Then, t.Else)
	case TermUnreachable:
		e.buf.WriteString(indent + "unreachable\n")
	}
}
