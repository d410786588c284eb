package sema

import (
	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/source"
	"adalite/internal/symbols"
)

// resolveStmts resolves a statement sequence in order, each in scope.
func (r *Resolver) resolveStmts(ids []ast.StmtID, scope symbols.ScopeID) {
	for _, id := range ids {
		r.resolveStmt(id, scope)
	}
}

func (r *Resolver) resolveStmt(id ast.StmtID, scope symbols.ScopeID) {
	if !id.IsValid() {
		return
	}
	node := r.builder.Stmts.Get(id)
	if node == nil {
		return
	}
	switch node.Kind {
	case ast.StmtNull, ast.StmtLabel:
		// nothing to resolve

	case ast.StmtAssign:
		data := r.builder.Stmts.Assign(id)
		targetTy := r.resolveExpr(data.Target, scope)
		valueTy := r.resolveExpr(data.Value, scope)
		if targetTy != 0 && valueTy != 0 && !r.types.Compatible(targetTy, valueTy) {
			r.errorf(node.Span, "assigned value's type does not match the target's")
		}
		r.insertRangeCheck(&data.Value, targetTy, valueTy, node.Span)

	case ast.StmtIf:
		data := r.builder.Stmts.If(id)
		for _, b := range data.Branches {
			r.resolveExpr(b.Cond, scope)
			r.resolveStmts(b.Body, scope)
		}
		r.resolveStmts(data.Else, scope)

	case ast.StmtCase:
		data := r.builder.Stmts.Case(id)
		r.resolveExpr(data.Selector, scope)
		for _, arm := range data.Arms {
			for _, c := range arm.Choices {
				r.resolveExpr(c, scope)
			}
			r.resolveStmts(arm.Body, scope)
		}

	case ast.StmtLoop:
		r.resolveLoop(node, id, scope)

	case ast.StmtBlock:
		r.resolveBlock(node, id, scope)

	case ast.StmtExit:
		data := r.builder.Stmts.Exit(id)
		if !r.loopLabelInScope(data.Label) {
			if data.Label != source.NoStringID {
				r.errorf(node.Span, "exit names a label that does not enclose this statement")
			} else if len(r.loopLabels) == 0 {
				r.errorf(node.Span, "exit statement not inside a loop")
			}
		}
		if data.Cond.IsValid() {
			r.resolveExpr(data.Cond, scope)
		}

	case ast.StmtReturn:
		data := r.builder.Stmts.Return(id)
		if data.Value.IsValid() {
			r.resolveExpr(data.Value, scope)
		}

	case ast.StmtGoto:
		// The target label is not checked: no pass verifies that it
		// exists in the enclosing body.

	case ast.StmtRaise:
		data := r.builder.Stmts.Raise(id)
		if data.Exception == source.NoStringID && !r.inHandler {
			r.errorf(node.Span, "a bare raise statement is only legal inside an exception handler")
		}

	case ast.StmtProcCall:
		data := r.builder.Stmts.ProcCall(id)
		r.resolveExpr(data.Call, scope)
	}
}

func (r *Resolver) resolveLoop(node *ast.Stmt, id ast.StmtID, scope symbols.ScopeID) {
	data := r.builder.Stmts.Loop(id)
	loopScope := scope
	if data.Scheme == ast.LoopFor {
		loopScope = r.symbols.OpenScope(symbols.ScopeBlock)
		defer r.symbols.CloseScope()
		rangeTy := r.resolveExpr(data.ForRange, loopScope)
		r.result.LoopVarSymbols[id] = r.symbols.Add(data.ForVar, symbols.Symbol{Kind: symbols.KindObject, Type: rangeTy})
	} else if data.Scheme == ast.LoopWhile {
		r.resolveExpr(data.Cond, scope)
	}
	r.loopLabels = append(r.loopLabels, data.Label)
	r.resolveStmts(data.Body, loopScope)
	r.loopLabels = r.loopLabels[:len(r.loopLabels)-1]
}

func (r *Resolver) loopLabelInScope(label source.StringID) bool {
	if label == source.NoStringID {
		return len(r.loopLabels) > 0
	}
	for _, l := range r.loopLabels {
		if l == label {
			return true
		}
	}
	return false
}

func (r *Resolver) resolveBlock(node *ast.Stmt, id ast.StmtID, scope symbols.ScopeID) {
	data := r.builder.Stmts.Block(id)
	blockScope := r.symbols.OpenScope(symbols.ScopeBlock)
	for _, d := range data.Decls {
		r.resolveDecl(d, blockScope)
	}
	r.resolveStmts(data.Body, blockScope)
	r.resolveHandlers(data.Handlers, blockScope, node.Span)
	r.symbols.CloseScope()
}

func (r *Resolver) resolveHandlers(handlers []ast.ExceptionHandler, scope symbols.ScopeID, span source.Span) {
	prevInHandler := r.inHandler
	r.inHandler = true
	for _, h := range handlers {
		for _, name := range h.Names {
			if sym := r.symbols.Lookup(scope, name); sym == symbols.NoSymbolID {
				r.bag.Errorf(diag.Semantic, span, "unknown exception %q in handler",
					r.symbols.Strings.Spelling(name))
			}
		}
		r.resolveStmts(h.Body, scope)
	}
	r.inHandler = prevInHandler
}
