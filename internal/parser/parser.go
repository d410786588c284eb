// Package parser is a hand-written recursive-descent parser over the
// token stream internal/lexer produces, building the tagged-variant
// AST internal/ast models. Syntactic errors are immediately fatal
// (§7): the parser reports one diagnostic and unwinds via panic/recover
// at the compilation-unit boundary rather than attempting error
// recovery mid-declaration, since a malformed declaration's shape can't
// be guessed at well enough to keep building a usable tree.
package parser

import (
	"fmt"

	"adalite/internal/ast"
	"adalite/internal/diag"
	"adalite/internal/lexer"
	"adalite/internal/source"
	"adalite/internal/token"
)

// Parser holds one file's worth of parsing state.
type Parser struct {
	lex     *lexer.Lexer
	bag     *diag.Bag
	builder *ast.Builder
	fileID  source.FileID
}

// New creates a Parser reading from lex, building nodes into builder,
// and reporting syntax errors to bag.
func New(lex *lexer.Lexer, builder *ast.Builder, bag *diag.Bag, fileID source.FileID) *Parser {
	return &Parser{lex: lex, bag: bag, builder: builder, fileID: fileID}
}

// syntaxError is panicked to unwind to the compilation-unit boundary on
// a fatal syntactic error (§7).
type syntaxError struct{ msg string }

func (p *Parser) fail(span source.Span, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.bag.Errorf(diag.Syntactic, span, "%s", msg)
	panic(syntaxError{msg: msg})
}

func (p *Parser) cur() token.Token  { return p.lex.Peek() }
func (p *Parser) cur2() token.Token { return p.lex.Peek2() }
func (p *Parser) advance() token.Token { return p.lex.Next() }

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k token.Kind) token.Token {
	t := p.cur()
	if t.Kind != k {
		p.fail(t.Span, "expected %s, found %s %q", k, t.Kind, t.Text)
	}
	return p.advance()
}

// expectIdent consumes an identifier token and interns its spelling.
func (p *Parser) expectIdent() source.StringID {
	t := p.expect(token.Ident)
	return p.builder.Strings.Intern(t.Text)
}

// ParseFile runs the whole file through ParseCompilationUnit, catching
// a syntaxError panic and returning a nil File with the error rather
// than propagating the panic past this boundary; the units parsed
// before the error are not returned. The driver treats the nil File
// as an empty one and moves on to the next unit.
func (p *Parser) ParseFile() (file *ast.File, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(syntaxError); ok {
				err = fmt.Errorf("parser: %s", se.msg)
				return
			}
			panic(r)
		}
	}()
	f := &ast.File{FileID: p.fileID}
	for !p.at(token.EOF) {
		u := p.parseUnit()
		f.Units = append(f.Units, u)
		if p.at(token.Semicolon) {
			p.advance()
		}
	}
	return f, nil
}
