package sema

import (
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// synthesizeOperators is wired as the symbol table's OperatorSynthesizer
// hook (see New), invoked once per newly-frozen record or array type.
// It installs the implicit `=`, `/=`, assignment, and default-init
// operators §4.2 requires every composite type to have, as synthetic
// symbols carrying no AST node of their own (the IR generator lowers
// them structurally rather than by name lookup).
func (r *Resolver) synthesizeOperators(tbl *symbols.Table, typeID types.TypeID) {
	ty := tbl.Types.Get(typeID)
	if ty == nil {
		return
	}
	eq := tbl.Add(tbl.Strings.Intern("="), symbols.Symbol{
		Kind:     symbols.KindFunction,
		Params:   []symbols.Param{{Type: typeID}, {Type: typeID}},
		ReturnTy: r.prelude.Boolean,
	})
	tbl.Types.AddOperator(typeID, types.OpEquality, types.SymbolID(eq))

	neq := tbl.Add(tbl.Strings.Intern("/="), symbols.Symbol{
		Kind:     symbols.KindFunction,
		Params:   []symbols.Param{{Type: typeID}, {Type: typeID}},
		ReturnTy: r.prelude.Boolean,
	})
	tbl.Types.AddOperator(typeID, types.OpInequality, types.SymbolID(neq))

	// Assignment and default-init have no user-visible name; they are
	// referenced only by TypeID from the IR generator, so no symbol
	// table entry is installed — only the operator-vector marker.
	tbl.Types.AddOperator(typeID, types.OpAssign, types.SymbolID(symbols.NoSymbolID))
	tbl.Types.AddOperator(typeID, types.OpDefaultInit, types.SymbolID(symbols.NoSymbolID))
}
