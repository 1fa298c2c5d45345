// Package strcursor provides rune-oriented lookahead over an in-memory
// document, tracking the byte offset, line and column of the read
// position for diagnostics. Peek and Consume are 1-indexed: Peek(1) is
// the next unread character.
package strcursor

import (
	"strings"
	"unicode/utf8"
)

// Cursor reads runes off a buffer that has already been validated as
// UTF-8. It never rewinds; callers peek as far ahead as they need and
// then advance.
type Cursor struct {
	in    string
	runes []rune

	pos       int // rune index of the read position
	off       int // byte offset of the read position
	lineno    int
	column    int
	lineStart int // byte offset of the current line
}

func New(b []byte) *Cursor {
	in := string(b)
	return &Cursor{
		in:     in,
		runes:  []rune(in),
		lineno: 1,
		column: 1,
	}
}

// Done reports whether the input is exhausted.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.runes)
}

// HasChars reports whether at least n runes remain.
func (c *Cursor) HasChars(n int) bool {
	return c.pos+n <= len(c.runes)
}

// Peek returns the nth rune ahead of the read position without
// consuming anything, or utf8.RuneError when fewer than n remain.
func (c *Cursor) Peek(n int) rune {
	if n <= 0 || !c.HasChars(n) {
		return utf8.RuneError
	}
	return c.runes[c.pos+n-1]
}

// Advance consumes n runes, or whatever remains if that is fewer.
func (c *Cursor) Advance(n int) {
	for i := 0; i < n && c.pos < len(c.runes); i++ {
		r := c.runes[c.pos]
		c.pos++
		c.off += utf8.RuneLen(r)
		if r == '\n' {
			c.lineno++
			c.column = 1
			c.lineStart = c.off
		} else {
			c.column++
		}
	}
}

// Consume returns the next n runes as a string and advances past them.
func (c *Cursor) Consume(n int) string {
	if !c.HasChars(n) {
		n = len(c.runes) - c.pos
	}
	s := string(c.runes[c.pos : c.pos+n])
	c.Advance(n)
	return s
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.in[c.off:], s)
}

// ConsumePrefix consumes s if the unread input starts with it.
func (c *Cursor) ConsumePrefix(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.Advance(utf8.RuneCountInString(s))
	return true
}

// OffsetBytes returns the byte offset of the read position.
func (c *Cursor) OffsetBytes() int {
	return c.off
}

// LineNumber returns the 1-based line number of the read position.
func (c *Cursor) LineNumber() int {
	return c.lineno
}

// Column returns the 1-based column of the read position, counted in
// runes.
func (c *Cursor) Column() int {
	return c.column
}

// CurrentLine returns the text of the line containing the read
// position, without its terminator.
func (c *Cursor) CurrentLine() string {
	rest := c.in[c.lineStart:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}
