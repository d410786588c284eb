package diag

import "adalite/internal/source"

// Note attaches secondary context (e.g. "previous declaration here")
// to a diagnostic.
type Note struct {
	Span    source.Span
	Message string
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity
	Category Category
	Span     source.Span
	Message  string
	Notes    []Note
}
