package source

import "strings"

// StringID is an interned, case-folded identifier. Ada 83 identifiers
// are case-insensitive, so the interner's hash key is the upper-cased
// spelling; the first spelling seen is retained for diagnostics and
// name mangling.
type StringID uint32

// NoStringID marks the absence of an interned string.
const NoStringID StringID = 0

// Interner folds Ada identifiers to a canonical case-insensitive key
// while remembering the original spelling of the first occurrence.
type Interner struct {
	keyToID  map[string]StringID
	spellings []string // index 0 unused, mirrors StringID numbering
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		keyToID:   make(map[string]StringID),
		spellings: []string{""},
	}
}

// Intern folds name and returns its StringID, allocating a fresh one on
// first sight. The original spelling (not the folded key) is what
// Spelling later returns.
func (in *Interner) Intern(name string) StringID {
	key := strings.ToUpper(name)
	if id, ok := in.keyToID[key]; ok {
		return id
	}
	in.spellings = append(in.spellings, name)
	id := StringID(len(in.spellings) - 1)
	in.keyToID[key] = id
	return id
}

// Spelling returns the first-seen spelling for id.
func (in *Interner) Spelling(id StringID) string {
	if int(id) <= 0 || int(id) >= len(in.spellings) {
		return ""
	}
	return in.spellings[id]
}

// Fold exposes the case-insensitive comparison key for a raw name,
// useful when comparing a token's lexeme to an already-interned name
// without a round trip through Intern.
func Fold(name string) string { return strings.ToUpper(name) }
