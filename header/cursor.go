package header

import (
	"github.com/gogpu/shadermeta/diag"
)

// Cursor scans the metadata text one byte at a time.
// The metadata grammar is ASCII; identifiers never contain multi-byte runes.
type Cursor struct {
	source string
	pos    int
}

// NewCursor creates a cursor positioned at the start of source.
func NewCursor(source string) *Cursor {
	return &Cursor{source: source}
}

// Offset returns the byte offset of the cursor.
func (c *Cursor) Offset() int {
	return c.pos
}

// AtEnd reports whether the cursor has consumed the whole source.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.source)
}

// Peek returns the byte under the cursor, or 0 at the end.
func (c *Cursor) Peek() byte {
	if c.AtEnd() {
		return 0
	}
	return c.source[c.pos]
}

// Advance consumes one byte and returns it.
func (c *Cursor) Advance() byte {
	if c.AtEnd() {
		return 0
	}
	b := c.source[c.pos]
	c.pos++
	return b
}

// HasPrefix reports whether the unread source starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return len(c.source)-c.pos >= len(s) && c.source[c.pos:c.pos+len(s)] == s
}

// Skip consumes n bytes.
func (c *Cursor) Skip(n int) {
	c.pos = min(c.pos+n, len(c.source))
}

// SkipLine consumes everything up to and including the next newline.
func (c *Cursor) SkipLine() {
	for !c.AtEnd() {
		if c.Advance() == '\n' {
			return
		}
	}
}

// SkipSpaces consumes blanks and tabs.
func (c *Cursor) SkipSpaces() {
	for c.Peek() == ' ' || c.Peek() == '\t' {
		c.pos++
	}
}

// Identifier consumes a maximal run of [A-Za-z0-9_] and returns it.
// The result is empty if the cursor is not on an identifier character.
func (c *Cursor) Identifier() string {
	start := c.pos
	for !c.AtEnd() && isIdentChar(c.source[c.pos]) {
		c.pos++
	}
	return c.source[start:c.pos]
}

// UnsignedInt consumes a maximal run of ASCII digits and returns its value.
// ok is false if no digit was present. Values beyond 32 bits saturate to
// 1<<32 so callers can reject them.
func (c *Cursor) UnsignedInt() (value uint64, ok bool) {
	for !c.AtEnd() && isDigit(c.source[c.pos]) {
		if value <= 1<<32 {
			value = value*10 + uint64(c.source[c.pos]-'0')
		}
		c.pos++
		ok = true
	}
	if value > 1<<32 {
		value = 1 << 32
	}
	return value, ok
}

// Match consumes the expected byte or fails without consuming anything.
func (c *Cursor) Match(expected byte) error {
	if c.Peek() != expected || c.AtEnd() {
		return diag.ErrorAt(diag.ErrMalformedMetadata, c.pos, "expected %s, found %s", quoteByte(expected), c.describe())
	}
	c.pos++
	return nil
}

// MatchNewline consumes "\n" or "\r\n" and reports whether it did.
func (c *Cursor) MatchNewline() bool {
	switch {
	case c.HasPrefix("\n"):
		c.pos++
		return true
	case c.HasPrefix("\r\n"):
		c.pos += 2
		return true
	}
	return false
}

// AtNewline reports whether the cursor is on a line terminator.
func (c *Cursor) AtNewline() bool {
	return c.HasPrefix("\n") || c.HasPrefix("\r\n")
}

func (c *Cursor) describe() string {
	if c.AtEnd() {
		return "end of metadata"
	}
	return quoteByte(c.source[c.pos])
}

func quoteByte(b byte) string {
	switch b {
	case '\n':
		return "newline"
	case '\r':
		return "carriage return"
	}
	return "'" + string(rune(b)) + "'"
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentChar(b byte) bool {
	return isDigit(b) || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
