package ast

import (
	"adalite/internal/arena"
	"adalite/internal/source"
)

// AssignData is the payload for StmtAssign.
type AssignData struct {
	Target ExprID
	Value  ExprID
}

// IfBranch is one `if`/`elsif` condition-and-body pair.
type IfBranch struct {
	Cond ExprID
	Body []StmtID
}

// IfData is the payload for StmtIf.
type IfData struct {
	Branches []IfBranch
	Else     []StmtID // nil when there is no `else` part
}

// CaseArm is one `when` branch of a case statement; Choices is a
// discrete choice list (values, ranges, or `others`).
type CaseArm struct {
	Choices []ExprID
	Others  bool
	Body    []StmtID
}

// CaseData is the payload for StmtCase.
type CaseData struct {
	Selector ExprID
	Arms     []CaseArm
}

// LoopScheme distinguishes a plain, `while`, or `for` loop.
type LoopScheme uint8

const (
	LoopPlain LoopScheme = iota
	LoopWhile
	LoopFor
)

// LoopData is the payload for StmtLoop.
type LoopData struct {
	Label   source.StringID // NoStringID when unlabeled
	Scheme  LoopScheme
	Cond    ExprID     // LoopWhile
	ForVar  source.StringID // LoopFor
	ForRange ExprID         // LoopFor: a range or a discrete subtype
	Reverse bool
	Body    []StmtID
}

// ExceptionHandler is one `when X | Y => ...` (or `when others`) arm of
// a block or subprogram body's exception part (§4.5).
type ExceptionHandler struct {
	Names  []source.StringID
	Others bool
	Body   []StmtID
}

// BlockData is the payload for StmtBlock.
type BlockData struct {
	Decls    []DeclID
	Body     []StmtID
	Handlers []ExceptionHandler
}

// ExitData is the payload for StmtExit.
type ExitData struct {
	Label source.StringID // NoStringID exits the innermost loop
	Cond  ExprID          // NoExprID for an unconditional exit
}

// ReturnData is the payload for StmtReturn.
type ReturnData struct {
	Value ExprID // NoExprID for a procedure return
}

// GotoData is the payload for StmtGoto.
type GotoData struct {
	Label source.StringID
}

// RaiseData is the payload for StmtRaise.
type RaiseData struct {
	Exception source.StringID // NoStringID re-raises the current exception
}

// ProcCallData is the payload for StmtProcCall; Call reuses an
// ExprCall node so argument resolution is shared with expression calls.
type ProcCallData struct {
	Call ExprID
}

// LabelData is the payload for StmtLabel.
type LabelData struct {
	Name source.StringID
}

// Stmts aggregates the statement node table and each kind's payload arena.
type Stmts struct {
	Nodes   *arena.Arena[Stmt]
	Assigns *arena.Arena[AssignData]
	Ifs     *arena.Arena[IfData]
	Cases   *arena.Arena[CaseData]
	Loops   *arena.Arena[LoopData]
	Blocks  *arena.Arena[BlockData]
	Exits   *arena.Arena[ExitData]
	Returns *arena.Arena[ReturnData]
	Gotos   *arena.Arena[GotoData]
	Raises  *arena.Arena[RaiseData]
	Calls   *arena.Arena[ProcCallData]
	Labels  *arena.Arena[LabelData]
}

// NewStmts allocates a Stmts with capHint-sized initial arenas.
func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Nodes:   arena.New[Stmt](capHint),
		Assigns: arena.New[AssignData](capHint / 4),
		Ifs:     arena.New[IfData](capHint / 8),
		Cases:   arena.New[CaseData](capHint / 16),
		Loops:   arena.New[LoopData](capHint / 16),
		Blocks:  arena.New[BlockData](capHint / 16),
		Exits:   arena.New[ExitData](capHint / 32),
		Returns: arena.New[ReturnData](capHint / 16),
		Gotos:   arena.New[GotoData](capHint / 64),
		Raises:  arena.New[RaiseData](capHint / 32),
		Calls:   arena.New[ProcCallData](capHint / 4),
		Labels:  arena.New[LabelData](capHint / 64),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Nodes.Alloc(Stmt{Kind: kind, Span: span, Payload: payload}))
}

// NewNull allocates a StmtNull node.
func (s *Stmts) NewNull(span source.Span) StmtID { return s.new(StmtNull, span, NoPayloadID) }

// NewAssign allocates a StmtAssign node.
func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	p := PayloadID(s.Assigns.Alloc(AssignData{Target: target, Value: value}))
	return s.new(StmtAssign, span, p)
}

// NewIf allocates a StmtIf node.
func (s *Stmts) NewIf(span source.Span, branches []IfBranch, elseBody []StmtID) StmtID {
	p := PayloadID(s.Ifs.Alloc(IfData{Branches: branches, Else: elseBody}))
	return s.new(StmtIf, span, p)
}

// NewCase allocates a StmtCase node.
func (s *Stmts) NewCase(span source.Span, selector ExprID, arms []CaseArm) StmtID {
	p := PayloadID(s.Cases.Alloc(CaseData{Selector: selector, Arms: arms}))
	return s.new(StmtCase, span, p)
}

// NewLoop allocates a StmtLoop node.
func (s *Stmts) NewLoop(span source.Span, data LoopData) StmtID {
	p := PayloadID(s.Loops.Alloc(data))
	return s.new(StmtLoop, span, p)
}

// NewBlock allocates a StmtBlock node.
func (s *Stmts) NewBlock(span source.Span, data BlockData) StmtID {
	p := PayloadID(s.Blocks.Alloc(data))
	return s.new(StmtBlock, span, p)
}

// NewExit allocates a StmtExit node.
func (s *Stmts) NewExit(span source.Span, label source.StringID, cond ExprID) StmtID {
	p := PayloadID(s.Exits.Alloc(ExitData{Label: label, Cond: cond}))
	return s.new(StmtExit, span, p)
}

// NewReturn allocates a StmtReturn node.
func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	p := PayloadID(s.Returns.Alloc(ReturnData{Value: value}))
	return s.new(StmtReturn, span, p)
}

// NewGoto allocates a StmtGoto node.
func (s *Stmts) NewGoto(span source.Span, label source.StringID) StmtID {
	p := PayloadID(s.Gotos.Alloc(GotoData{Label: label}))
	return s.new(StmtGoto, span, p)
}

// NewRaise allocates a StmtRaise node.
func (s *Stmts) NewRaise(span source.Span, exception source.StringID) StmtID {
	p := PayloadID(s.Raises.Alloc(RaiseData{Exception: exception}))
	return s.new(StmtRaise, span, p)
}

// NewProcCall allocates a StmtProcCall node.
func (s *Stmts) NewProcCall(span source.Span, call ExprID) StmtID {
	p := PayloadID(s.Calls.Alloc(ProcCallData{Call: call}))
	return s.new(StmtProcCall, span, p)
}

// NewLabel allocates a StmtLabel node.
func (s *Stmts) NewLabel(span source.Span, name source.StringID) StmtID {
	p := PayloadID(s.Labels.Alloc(LabelData{Name: name}))
	return s.new(StmtLabel, span, p)
}

// Get returns the node table entry for id, or nil.
func (s *Stmts) Get(id StmtID) *Stmt { return s.Nodes.Get(uint32(id)) }

func (s *Stmts) Assign(id StmtID) *AssignData   { return s.Assigns.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) If(id StmtID) *IfData           { return s.Ifs.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Case(id StmtID) *CaseData       { return s.Cases.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Loop(id StmtID) *LoopData       { return s.Loops.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Block(id StmtID) *BlockData     { return s.Blocks.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Exit(id StmtID) *ExitData       { return s.Exits.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Return(id StmtID) *ReturnData   { return s.Returns.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Goto(id StmtID) *GotoData       { return s.Gotos.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Raise(id StmtID) *RaiseData     { return s.Raises.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) ProcCall(id StmtID) *ProcCallData { return s.Calls.Get(uint32(s.Get(id).Payload)) }
func (s *Stmts) Label(id StmtID) *LabelData     { return s.Labels.Get(uint32(s.Get(id).Payload)) }
