package symbols

import (
	"fmt"
	"hash/fnv"
	"strings"

	"adalite/internal/source"
)

// Mangle produces the link name for sym, scoped under parent (the
// enclosing library unit's own link name or spelling). Both the .ali
// exporter and the IR function-naming share this so a call site and
// its definition agree on the symbol's name (§6):
//
//	<PARENT>_S<scope>E<ordinal>__<NAME>.<arg_count>.<sig_hash>.<uid>.<param_name_hash>
func Mangle(parent string, interner *source.Interner, sym *Symbol) string {
	if sym == nil {
		return encodeMangled(parent)
	}
	name := interner.Spelling(sym.Name)
	uid := sym.UID
	if uid == "" {
		uid = "0"
	}
	return fmt.Sprintf("%s_S%dE%d__%s.%d.%s.%s.%s",
		encodeMangled(parent), sym.Scope, sym.ElabOrdinal, encodeMangled(name),
		len(sym.Params), hashSignature(sym), encodeMangled(uid), hashParamNames(sym, interner))
}

// encodeMangled rewrites s so only ASCII letters/digits survive
// unescaped; anything else becomes _HH (its byte value in hex), the
// encoding §6 specifies for non-alphanumeric identifier characters.
func encodeMangled(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02X", c)
		}
	}
	return b.String()
}

// hashSignature folds a subprogram's parameter types/modes and return
// type into a short, stable hex tag distinguishing overloads that
// share a name and arity.
func hashSignature(sym *Symbol) string {
	h := fnv.New32a()
	for _, p := range sym.Params {
		fmt.Fprintf(h, "%d:%d;", p.Type, p.Mode)
	}
	fmt.Fprintf(h, "->%d", sym.ReturnTy)
	return fmt.Sprintf("%x", h.Sum32())
}

// hashParamNames folds just the formal parameter spellings, so two
// overloads with identical signatures but renamed formals (legal in
// Ada, since named association binds by spelling) still mangle apart.
func hashParamNames(sym *Symbol, interner *source.Interner) string {
	h := fnv.New32a()
	for _, p := range sym.Params {
		h.Write([]byte(interner.Spelling(p.Name)))
		h.Write([]byte{';'})
	}
	return fmt.Sprintf("%x", h.Sum32())
}
