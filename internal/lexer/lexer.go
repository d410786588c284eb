// Package lexer tokenizes Ada 83 source text. It is a pull iterator
// that buffers the next two tokens (§9 "coroutine control flow"),
// classifying identifiers, numeric/character/string literals, and
// delimiters; comments and whitespace are skipped as trivia.
package lexer

import (
	"strings"

	"adalite/internal/diag"
	"adalite/internal/source"
	"adalite/internal/token"
)

// Lexer scans one file into a Token stream on demand.
type Lexer struct {
	file   *source.File
	fileID source.FileID
	cursor Cursor
	bag    *diag.Bag

	buf    [2]token.Token
	bufLen int
}

// New creates a Lexer over file, reporting lexical diagnostics to bag.
func New(file *source.File, fileID source.FileID, bag *diag.Bag) *Lexer {
	return &Lexer{file: file, fileID: fileID, cursor: NewCursor(file), bag: bag}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token { return lx.PeekN(0) }

// Peek2 returns the token after the next one, without consuming either.
func (lx *Lexer) Peek2() token.Token { return lx.PeekN(1) }

// PeekN returns the token n positions ahead (0 = next), filling the
// lookahead buffer as needed.
func (lx *Lexer) PeekN(n int) token.Token {
	for lx.bufLen <= n {
		lx.buf[lx.bufLen] = lx.scan()
		lx.bufLen++
	}
	return lx.buf[n]
}

// Next consumes and returns the next token.
func (lx *Lexer) Next() token.Token {
	t := lx.Peek()
	copy(lx.buf[:], lx.buf[1:])
	if lx.bufLen > 0 {
		lx.bufLen--
	}
	return t
}

func (lx *Lexer) pos() source.Pos { return source.Pos(lx.cursor.Off) }

func (lx *Lexer) span(start source.Pos) source.Span {
	return source.Span{File: lx.fileID, Start: start, End: lx.pos()}
}

func (lx *Lexer) errorf(start source.Pos, format string, args ...any) {
	if lx.bag != nil {
		lx.bag.Errorf(diag.Lexical, lx.span(start), format, args...)
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentCont(b byte) bool { return isLetter(b) || isDigit(b) || b == '_' }

// scan produces the next real token, skipping whitespace and comments.
func (lx *Lexer) scan() token.Token {
	for {
		lx.skipSpace()
		if lx.cursor.Peek() == '-' && lx.cursor.PeekAt(1) == '-' {
			lx.skipLineComment()
			continue
		}
		break
	}
	start := lx.pos()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}
	b := lx.cursor.Peek()
	switch {
	case isLetter(b):
		return lx.scanIdent(start)
	case isDigit(b):
		return lx.scanNumber(start)
	case b == '"':
		return lx.scanString(start)
	case b == '\'':
		return lx.scanCharOrTick(start)
	default:
		return lx.scanOperator(start)
	}
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Advance()
	}
}

func (lx *Lexer) skipLineComment() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Advance()
	}
}

func (lx *Lexer) scanIdent(start source.Pos) token.Token {
	var sb strings.Builder
	for !lx.cursor.EOF() && isIdentCont(lx.cursor.Peek()) {
		sb.WriteByte(lx.cursor.Advance())
	}
	text := sb.String()
	upper := source.Fold(text)
	if kw, ok := token.Lookup(upper); ok {
		return token.Token{Kind: kw, Span: lx.span(start), Text: text}
	}
	return token.Token{Kind: token.Ident, Span: lx.span(start), Text: text}
}

// scanNumber handles decimal_integer[.decimal_integer][exponent] with
// underscore digit separators, per Ada 83 numeric literal syntax. Based
// literals (e.g. 16#FF#) are recognized by the '#' delimiter.
func (lx *Lexer) scanNumber(start source.Pos) token.Token {
	var sb strings.Builder
	isReal := false
	consumeDigits := func() {
		for !lx.cursor.EOF() && (isDigit(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
			sb.WriteByte(lx.cursor.Advance())
		}
	}
	consumeDigits()
	if lx.cursor.Peek() == '#' {
		sb.WriteByte(lx.cursor.Advance())
		for !lx.cursor.EOF() && lx.cursor.Peek() != '#' {
			sb.WriteByte(lx.cursor.Advance())
		}
		if lx.cursor.Peek() == '#' {
			sb.WriteByte(lx.cursor.Advance())
		}
	} else if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) != '.' {
		isReal = true
		sb.WriteByte(lx.cursor.Advance())
		consumeDigits()
	}
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		isReal = true
		sb.WriteByte(lx.cursor.Advance())
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			sb.WriteByte(lx.cursor.Advance())
		}
		consumeDigits()
	}
	kind := token.IntLiteral
	if isReal {
		kind = token.RealLiteral
	}
	return token.Token{Kind: kind, Span: lx.span(start), Text: sb.String()}
}

func (lx *Lexer) scanString(start source.Pos) token.Token {
	lx.cursor.Advance() // opening quote
	var sb strings.Builder
	for {
		if lx.cursor.EOF() {
			lx.errorf(start, "unterminated string literal")
			break
		}
		if lx.cursor.Peek() == '"' {
			if lx.cursor.PeekAt(1) == '"' {
				sb.WriteByte('"')
				lx.cursor.Advance()
				lx.cursor.Advance()
				continue
			}
			lx.cursor.Advance()
			break
		}
		sb.WriteByte(lx.cursor.Advance())
	}
	return token.Token{Kind: token.StringLiteral, Span: lx.span(start), Text: sb.String()}
}

// scanCharOrTick disambiguates a character literal 'x' from the
// apostrophe used by attribute references (T'FIRST). A character
// literal is exactly apostrophe, one byte, apostrophe.
func (lx *Lexer) scanCharOrTick(start source.Pos) token.Token {
	if lx.cursor.PeekAt(2) == '\'' && lx.cursor.PeekAt(1) != 0 {
		lx.cursor.Advance() // '
		ch := lx.cursor.Advance()
		lx.cursor.Advance() // '
		return token.Token{Kind: token.CharLiteral, Span: lx.span(start), Text: string(ch)}
	}
	lx.cursor.Advance()
	return token.Token{Kind: token.Apostrophe, Span: lx.span(start), Text: "'"}
}

func (lx *Lexer) scanOperator(start source.Pos) token.Token {
	b := lx.cursor.Advance()
	two := func(next byte, k2 token.Kind, k1 token.Kind) token.Token {
		if lx.cursor.Peek() == next {
			lx.cursor.Advance()
			return token.Token{Kind: k2, Span: lx.span(start), Text: string(b) + string(next)}
		}
		return token.Token{Kind: k1, Span: lx.span(start), Text: string(b)}
	}
	switch b {
	case '&':
		return token.Token{Kind: token.Ampersand, Span: lx.span(start), Text: "&"}
	case '(':
		return token.Token{Kind: token.LParen, Span: lx.span(start), Text: "("}
	case ')':
		return token.Token{Kind: token.RParen, Span: lx.span(start), Text: ")"}
	case '*':
		return two('*', token.StarStar, token.Star)
	case '+':
		return token.Token{Kind: token.Plus, Span: lx.span(start), Text: "+"}
	case ',':
		return token.Token{Kind: token.Comma, Span: lx.span(start), Text: ","}
	case '-':
		return token.Token{Kind: token.Minus, Span: lx.span(start), Text: "-"}
	case '.':
		return two('.', token.DotDot, token.Dot)
	case '/':
		return two('=', token.NotEqual, token.Slash)
	case ':':
		return two('=', token.Assign, token.Colon)
	case ';':
		return token.Token{Kind: token.Semicolon, Span: lx.span(start), Text: ";"}
	case '<':
		switch lx.cursor.Peek() {
		case '>':
			lx.cursor.Advance()
			return token.Token{Kind: token.LessGreater, Span: lx.span(start), Text: "<>"}
		case '<':
			lx.cursor.Advance()
			return token.Token{Kind: token.LessLess, Span: lx.span(start), Text: "<<"}
		case '=':
			lx.cursor.Advance()
			return token.Token{Kind: token.LessEqual, Span: lx.span(start), Text: "<="}
		default:
			return token.Token{Kind: token.Less, Span: lx.span(start), Text: "<"}
		}
	case '=':
		if lx.cursor.Peek() == '>' {
			lx.cursor.Advance()
			return token.Token{Kind: token.Arrow, Span: lx.span(start), Text: "=>"}
		}
		return token.Token{Kind: token.Equal, Span: lx.span(start), Text: "="}
	case '>':
		switch lx.cursor.Peek() {
		case '>':
			lx.cursor.Advance()
			return token.Token{Kind: token.GreaterGreater, Span: lx.span(start), Text: ">>"}
		case '=':
			lx.cursor.Advance()
			return token.Token{Kind: token.GreaterEqual, Span: lx.span(start), Text: ">="}
		default:
			return token.Token{Kind: token.Greater, Span: lx.span(start), Text: ">"}
		}
	case '|':
		return token.Token{Kind: token.Bar, Span: lx.span(start), Text: "|"}
	default:
		lx.errorf(start, "unrecognized character %q", b)
		return lx.scan()
	}
}
