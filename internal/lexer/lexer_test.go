package lexer

import (
	"testing"

	"adalite/internal/diag"
	"adalite/internal/source"
	"adalite/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	files := source.NewFileSet()
	fid := files.Add("t.ads", src)
	bag := diag.NewBag()
	lx := New(files.Get(fid), fid, bag)

	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected lexical errors: %v", bag.Items())
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexPackageSpec(t *testing.T) {
	toks := lexAll(t, "package P is\nend P;")
	got := kinds(toks)
	want := []token.Kind{
		token.KwPackage, token.Ident, token.KwIs,
		token.KwEnd, token.Ident, token.Semicolon, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexTwoCharacterOperators(t *testing.T) {
	toks := lexAll(t, "X := Y ** 2; Z := A /= B;")
	got := kinds(toks)
	wantContains := []token.Kind{token.Assign, token.StarStar, token.NotEqual}
	for _, w := range wantContains {
		found := false
		for _, k := range got {
			if k == w {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected token kind %v in stream %v", w, got)
		}
	}
}

func TestLexStringAndCharLiterals(t *testing.T) {
	toks := lexAll(t, `S : STRING := "hello"; C : CHARACTER := 'x';`)
	foundString, foundChar := false, false
	for _, tk := range toks {
		if tk.Kind == token.StringLiteral && tk.Text == `hello` {
			foundString = true
		}
		if tk.Kind == token.CharLiteral {
			foundChar = true
		}
	}
	if !foundString {
		t.Fatal("expected a string literal token")
	}
	if !foundChar {
		t.Fatal("expected a character literal token")
	}
}
