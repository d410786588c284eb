package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"adalite/internal/source"
)

// Cursor tracks a byte position within a single source file's text.
type Cursor struct {
	File *source.File
	Off  uint32
}

// NewCursor creates a cursor positioned at the start of f.
func NewCursor(f *source.File) Cursor {
	return Cursor{File: f, Off: 0}
}

func (c *Cursor) limit() uint32 {
	n, err := safecast.Conv[uint32](len(c.File.Text))
	if err != nil {
		panic(fmt.Errorf("lexer: file length overflow: %w", err))
	}
	return n
}

// EOF reports whether the cursor has consumed the whole file.
func (c *Cursor) EOF() bool { return c.Off >= c.limit() }

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Text[c.Off]
}

// PeekAt returns the byte offset bytes ahead of the cursor, or 0 past EOF.
func (c *Cursor) PeekAt(offset uint32) byte {
	idx := c.Off + offset
	if idx >= c.limit() {
		return 0
	}
	return c.File.Text[idx]
}

// Advance consumes and returns the current byte.
func (c *Cursor) Advance() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}
