package parser

import (
	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/lexer"
	"adalite/internal/source"
)

func parseSource(input string) (*ast.File, *ast.Builder, *diag.Bag, error) {
	files := source.NewFileSet()
	fid := files.Add("test.adb", input)
	strings := source.NewInterner()
	bag := diag.NewBag()
	builder := ast.NewBuilder(strings, ast.DefaultHints)
	lex := lexer.New(files.Get(fid), fid, bag)
	p := New(lex, builder, bag, fid)
	f, err := p.ParseFile()
	return f, builder, bag, err
}
