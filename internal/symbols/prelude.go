package symbols

import (
	"fmt"
	"math/big"

	"adalite/internal/source"
	"adalite/internal/types"
)

// Prelude bundles the handles into STANDARD that the rest of the
// compiler needs by name rather than by re-lookup (§C.3 of
// SPEC_FULL.md).
type Prelude struct {
	Scope ScopeID

	Integer   types.TypeID
	Natural   types.TypeID
	Positive  types.TypeID
	Float     types.TypeID
	Boolean   types.TypeID
	Character types.TypeID
	StringTy  types.TypeID

	True, False SymbolID

	ConstraintError SymbolID
	ProgramError    SymbolID
	StorageError    SymbolID
	TaskingError    SymbolID
}

// InstallPrelude pre-populates STANDARD: the predefined scalar/array
// types, BOOLEAN's two enumeration literals, and the four built-in
// exceptions, before any user file is resolved (§C.3).
func InstallPrelude(t *Table) *Prelude {
	scope := t.OpenScope(ScopeStandard)
	p := &Prelude{Scope: scope}

	intern := func(s string) source.StringID { return t.Strings.Intern(s) }

	mkBound := func(lo, hi int64) (types.ConstValue, types.ConstValue) {
		return types.ConstValue{Valid: true, Kind: types.KindInteger, Int: big.NewInt(lo)},
			types.ConstValue{Valid: true, Kind: types.KindInteger, Int: big.NewInt(hi)}
	}

	// INTEGER: a 64-bit signed base type.
	loI, hiI := mkBound(-(1 << 63), (1<<63)-1)
	p.Integer = t.Types.New(types.Type{Kind: types.KindInteger, Name: intern("INTEGER"), HasBounds: true, Low: loI, High: hiI})
	t.Types.Freeze(p.Integer)
	t.addTypeSymbol(intern("INTEGER"), p.Integer)

	// NATURAL and POSITIVE: constrained INTEGER subtypes.
	loN, hiN := mkBound(0, (1<<63)-1)
	p.Natural = t.Types.New(types.Type{Kind: types.KindInteger, Name: intern("NATURAL"), Base: p.Integer, HasBounds: true, Low: loN, High: hiN})
	t.Types.Freeze(p.Natural)
	t.addTypeSymbol(intern("NATURAL"), p.Natural)

	loP, hiP := mkBound(1, (1<<63)-1)
	p.Positive = t.Types.New(types.Type{Kind: types.KindInteger, Name: intern("POSITIVE"), Base: p.Integer, HasBounds: true, Low: loP, High: hiP})
	t.Types.Freeze(p.Positive)
	t.addTypeSymbol(intern("POSITIVE"), p.Positive)

	// FLOAT: lowered to IEEE double throughout, per §4.7.
	p.Float = t.Types.New(types.Type{Kind: types.KindFloat, Name: intern("FLOAT")})
	t.Types.Freeze(p.Float)
	t.addTypeSymbol(intern("FLOAT"), p.Float)

	// BOOLEAN: a two-literal enumeration.
	p.Boolean = t.Types.New(types.Type{Kind: types.KindBoolean, Name: intern("BOOLEAN")})
	falseSym := t.Add(intern("FALSE"), Symbol{Kind: KindEnumLiteral, Type: p.Boolean})
	trueSym := t.Add(intern("TRUE"), Symbol{Kind: KindEnumLiteral, Type: p.Boolean})
	p.False, p.True = falseSym, trueSym
	if bt := t.Types.Get(p.Boolean); bt != nil {
		bt.EnumLiterals = []types.SymbolID{types.SymbolID(falseSym), types.SymbolID(trueSym)}
	}
	t.Types.Freeze(p.Boolean)
	t.addTypeSymbol(intern("BOOLEAN"), p.Boolean)

	// CHARACTER: the full 128-value Latin-1/ASCII enumeration, each
	// literal named by its single-character spelling.
	p.Character = t.Types.New(types.Type{Kind: types.KindCharacter, Name: intern("CHARACTER")})
	literals := make([]types.SymbolID, 128)
	for i := 0; i < 128; i++ {
		name := intern(fmt.Sprintf("'%c'", rune(i)))
		sym := t.Add(name, Symbol{Kind: KindEnumLiteral, Type: p.Character})
		literals[i] = types.SymbolID(sym)
	}
	if ct := t.Types.Get(p.Character); ct != nil {
		ct.EnumLiterals = literals
	}
	t.Types.Freeze(p.Character)
	t.addTypeSymbol(intern("CHARACTER"), p.Character)

	// STRING: an unconstrained array of CHARACTER indexed by POSITIVE.
	p.StringTy = t.Types.New(types.Type{Kind: types.KindString, Name: intern("STRING"), Elem: p.Character, IndexType: p.Positive})
	t.Types.Freeze(p.StringTy)
	t.addTypeSymbol(intern("STRING"), p.StringTy)

	// The four built-in exceptions (§7).
	p.ConstraintError = t.Add(intern("CONSTRAINT_ERROR"), Symbol{Kind: KindException})
	p.ProgramError = t.Add(intern("PROGRAM_ERROR"), Symbol{Kind: KindException})
	p.StorageError = t.Add(intern("STORAGE_ERROR"), Symbol{Kind: KindException})
	p.TaskingError = t.Add(intern("TASKING_ERROR"), Symbol{Kind: KindException})

	return p
}

func (t *Table) addTypeSymbol(name source.StringID, ty types.TypeID) SymbolID {
	return t.Add(name, Symbol{Kind: KindType, Type: ty})
}
