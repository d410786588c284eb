package sema

import (
	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/lexer"
	"adalite/internal/parser"
	"adalite/internal/source"
	"adalite/internal/symbols"
	"adalite/internal/types"
)

// resolveSource parses and resolves input as a standalone compilation
// unit, returning the builder (for walking the resolved tree) and the
// diagnostics produced.
func resolveSource(src string) (*ast.Builder, *Result, *diag.Bag) {
	files := source.NewFileSet()
	fid := files.Add("test.adb", src)
	strings := source.NewInterner()
	bag := diag.NewBag()
	builder := ast.NewBuilder(strings, ast.DefaultHints)
	lex := lexer.New(files.Get(fid), fid, bag)
	p := parser.New(lex, builder, bag, fid)
	f, _ := p.ParseFile()

	ty := types.NewTable()
	symTable := symbols.NewTable(strings, ty)
	prelude := symbols.InstallPrelude(symTable)

	r := New(builder, Options{Bag: bag, Files: files, Symbols: symTable, Types: ty, Prelude: prelude})
	res := r.ResolveFile(f)
	return builder, res, bag
}
