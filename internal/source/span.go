package source

// Pos is a byte offset into a single file's contents.
type Pos uint32

// Span identifies a half-open byte range within one file.
type Span struct {
	File  FileID
	Start Pos
	End   Pos
}

// Contains reports whether p lies within the span.
func (s Span) Contains(p Pos) bool { return p >= s.Start && p < s.End }

// Join returns the smallest span covering both s and other. Both must
// belong to the same file; callers are expected to enforce this.
func (s Span) Join(other Span) Span {
	start, end := s.Start, s.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Span{File: s.File, Start: start, End: end}
}
