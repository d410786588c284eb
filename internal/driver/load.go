package driver

import (
	"fmt"
	"os"

	"adalite/internal/ast"
	"adalite/internal/lexer"
	"adalite/internal/parser"
)

// parseFile reads path and parses it into the Context's shared Builder.
// singleflight merges calls for the same path that are in flight at the
// same time; a later call for a path already parsed reads and parses it
// again (elaborate's visited set is what keeps a unit with'd from two
// different context clauses from being parsed twice). A
// fatal syntax error inside one unit is already recorded in c.Bag by
// the parser; parseFile only reports I/O failures as Go errors.
func (c *Context) parseFile(path string) (*ast.File, error) {
	v, err, _ := c.sf.Do(path, func() (any, error) {
		text, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, rerr
		}
		fid := c.Files.Add(path, string(text))
		lex := lexer.New(c.Files.Get(fid), fid, c.Bag)
		p := parser.New(lex, c.Builder, c.Bag, fid)
		f, _ := p.ParseFile()
		return f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, _ := v.(*ast.File)
	if f == nil {
		return &ast.File{}, nil
	}
	return f, nil
}
