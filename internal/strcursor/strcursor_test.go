package strcursor_test

import (
	"testing"
	"unicode/utf8"

	"github.com/dudanian/dictxml/internal/strcursor"
	"github.com/stretchr/testify/require"
)

func TestPeekConsume(t *testing.T) {
	c := strcursor.New([]byte("<ab>"))

	require.Equal(t, '<', c.Peek(1), "Peek(1) should be the next rune")
	require.Equal(t, 'a', c.Peek(2), "Peek should be 1-indexed")
	require.Equal(t, utf8.RuneError, c.Peek(5), "peeking past the end should not panic")
	require.True(t, c.HasChars(4), "four runes should remain")
	require.False(t, c.HasChars(5), "five runes should not remain")

	require.Equal(t, "<ab", c.Consume(3), "Consume should return what it consumed")
	require.Equal(t, '>', c.Peek(1), "read position should have advanced")
	require.False(t, c.Done(), "one rune should remain")

	c.Advance(1)
	require.True(t, c.Done(), "input should be exhausted")
	require.Equal(t, utf8.RuneError, c.Peek(1), "peek at the end should not panic")
}

func TestMultibyte(t *testing.T) {
	c := strcursor.New([]byte("日本<x>"))

	require.Equal(t, '日', c.Peek(1), "multibyte runes should peek whole")
	require.Equal(t, "日本", c.Consume(2), "Consume should count runes, not bytes")
	require.Equal(t, 6, c.OffsetBytes(), "offset should count bytes")
	require.Equal(t, 3, c.Column(), "column should count runes")
}

func TestPrefix(t *testing.T) {
	c := strcursor.New([]byte("<!DOCTYPE d>"))

	require.True(t, c.HasPrefix("<!DOCTYPE"), "prefix should match")
	require.False(t, c.HasPrefix("<!ENTITY"), "non-prefix should not match")
	require.False(t, c.ConsumePrefix("<!ENTITY"), "failed consume should not advance")
	require.Equal(t, 0, c.OffsetBytes(), "offset should be untouched")
	require.True(t, c.ConsumePrefix("<!DOCTYPE"), "prefix should consume")
	require.Equal(t, ' ', c.Peek(1), "read position should follow the prefix")
}

func TestLineTracking(t *testing.T) {
	c := strcursor.New([]byte("one\ntwo\nthree"))

	require.Equal(t, 1, c.LineNumber(), "line numbers should start at 1")
	require.Equal(t, 1, c.Column(), "columns should start at 1")
	require.Equal(t, "one", c.CurrentLine(), "current line should be the first line")

	c.Advance(5) // "one\nt"
	require.Equal(t, 2, c.LineNumber(), "newline should bump the line number")
	require.Equal(t, 2, c.Column(), "column should reset per line")
	require.Equal(t, "two", c.CurrentLine(), "current line should follow the cursor")

	c.Advance(3) // "wo\n"
	require.Equal(t, 3, c.LineNumber(), "line number should keep advancing")
	require.Equal(t, "three", c.CurrentLine(), "last line has no terminator")
}
