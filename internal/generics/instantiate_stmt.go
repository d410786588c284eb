package generics

import (
	"adalite/internal/ast"
	"adalite/internal/source"
)

func (c *copier) copyStmtList(ids []ast.StmtID, depth int) []ast.StmtID {
	if ids == nil {
		return nil
	}
	out := make([]ast.StmtID, len(ids))
	for i, id := range ids {
		out[i] = c.copyStmt(id, depth)
	}
	return out
}

func (c *copier) copyStmt(id ast.StmtID, depth int) ast.StmtID {
	if !id.IsValid() {
		return ast.NoStmtID
	}
	node := c.builder.Stmts.Get(id)
	if node == nil || c.tooDeep(depth, node.Span) {
		return ast.NoStmtID
	}
	span := node.Span
	s := c.builder.Stmts

	switch node.Kind {
	case ast.StmtNull:
		return s.NewNull(span)

	case ast.StmtAssign:
		data := s.Assign(id)
		return s.NewAssign(span, c.copyExpr(data.Target, depth+1), c.copyExpr(data.Value, depth+1))

	case ast.StmtIf:
		data := s.If(id)
		branches := make([]ast.IfBranch, len(data.Branches))
		for i, b := range data.Branches {
			branches[i] = ast.IfBranch{Cond: c.copyExpr(b.Cond, depth+1), Body: c.copyStmtList(b.Body, depth+1)}
		}
		return s.NewIf(span, branches, c.copyStmtList(data.Else, depth+1))

	case ast.StmtCase:
		data := s.Case(id)
		arms := make([]ast.CaseArm, len(data.Arms))
		for i, arm := range data.Arms {
			arms[i] = ast.CaseArm{Choices: c.copyExprList(arm.Choices, depth+1), Others: arm.Others, Body: c.copyStmtList(arm.Body, depth+1)}
		}
		return s.NewCase(span, c.copyExpr(data.Selector, depth+1), arms)

	case ast.StmtLoop:
		data := s.Loop(id)
		return s.NewLoop(span, ast.LoopData{
			Label:    data.Label,
			Scheme:   data.Scheme,
			Cond:     c.copyExpr(data.Cond, depth+1),
			ForVar:   data.ForVar,
			ForRange: c.copyExpr(data.ForRange, depth+1),
			Reverse:  data.Reverse,
			Body:     c.copyStmtList(data.Body, depth+1),
		})

	case ast.StmtBlock:
		data := s.Block(id)
		return s.NewBlock(span, ast.BlockData{
			Decls:    c.copyDeclList(data.Decls, depth+1),
			Body:     c.copyStmtList(data.Body, depth+1),
			Handlers: c.copyHandlers(data.Handlers, depth+1),
		})

	case ast.StmtExit:
		data := s.Exit(id)
		return s.NewExit(span, data.Label, c.copyExpr(data.Cond, depth+1))

	case ast.StmtReturn:
		data := s.Return(id)
		return s.NewReturn(span, c.copyExpr(data.Value, depth+1))

	case ast.StmtGoto:
		return s.NewGoto(span, s.Goto(id).Label)

	case ast.StmtRaise:
		return s.NewRaise(span, s.Raise(id).Exception)

	case ast.StmtProcCall:
		data := s.ProcCall(id)
		return s.NewProcCall(span, c.copyExpr(data.Call, depth+1))

	case ast.StmtLabel:
		return s.NewLabel(span, s.Label(id).Name)
	}
	return ast.NoStmtID
}

func (c *copier) copyHandlers(handlers []ast.ExceptionHandler, depth int) []ast.ExceptionHandler {
	if handlers == nil {
		return nil
	}
	out := make([]ast.ExceptionHandler, len(handlers))
	for i, h := range handlers {
		out[i] = ast.ExceptionHandler{
			Names:  append([]source.StringID(nil), h.Names...),
			Others: h.Others,
			Body:   c.copyStmtList(h.Body, depth),
		}
	}
	return out
}
