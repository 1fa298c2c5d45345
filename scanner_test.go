package dictxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token {
	t.Helper()

	s := newScanner([]byte(src))
	var tokens []token
	for {
		tok, err := s.next()
		require.NoError(t, err, "scanner.next should succeed")
		tokens = append(tokens, tok)
		if tok.typ == tokEOF {
			return tokens
		}
	}
}

func tokTypes(tokens []token) []tokenType {
	types := make([]tokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.typ)
	}
	return types
}

func TestScannerElement(t *testing.T) {
	tokens := scanAll(t, `<a b="c">x</a>`)
	require.Equal(t,
		[]tokenType{
			tokOpenTagStart, tokName, tokName, tokAttrEquals, tokQuotedValue,
			tokOpenTagEnd, tokText, tokCloseTagStart, tokName, tokCloseTagEnd,
			tokEOF,
		},
		tokTypes(tokens),
		"token sequence should match",
	)
	require.Equal(t, "a", tokens[1].val, "element name should match")
	require.Equal(t, "b", tokens[2].val, "attribute name should match")
	require.Equal(t, "c", tokens[4].val, "attribute value should match")
	require.Equal(t, "x", tokens[6].val, "text should match")
}

func TestScannerSelfClose(t *testing.T) {
	tokens := scanAll(t, `<a/>`)
	require.Equal(t,
		[]tokenType{tokOpenTagStart, tokName, tokSelfClose, tokEOF},
		tokTypes(tokens),
		"token sequence should match",
	)
}

func TestScannerReferences(t *testing.T) {
	tokens := scanAll(t, `<a>&lt;&#65;&#x41;</a>`)

	require.Equal(t, tokEntityRef, tokens[3].typ, "entity reference expected")
	require.Equal(t, "lt", tokens[3].val, "entity name should match")
	require.Equal(t, tokCharRef, tokens[4].typ, "character reference expected")
	require.Equal(t, "65", tokens[4].val, "decimal payload should match")
	require.Equal(t, tokCharRef, tokens[5].typ, "character reference expected")
	require.Equal(t, "x41", tokens[5].val, "hex payload should match")
}

func TestScannerMarkupSkipped(t *testing.T) {
	tokens := scanAll(t, `<!-- note --><a><?target data?></a>`)
	require.Equal(t,
		[]tokenType{
			tokComment, tokOpenTagStart, tokName, tokOpenTagEnd,
			tokPI, tokCloseTagStart, tokName, tokCloseTagEnd, tokEOF,
		},
		tokTypes(tokens),
		"token sequence should match",
	)
}

func TestScannerCDATA(t *testing.T) {
	tokens := scanAll(t, `<a><![CDATA[&amp; <not-a-tag>]]></a>`)
	require.Equal(t, tokCDATA, tokens[3].typ, "CDATA token expected")
	require.Equal(t, "&amp; <not-a-tag>", tokens[3].val, "CDATA content should be verbatim")
}

func TestScannerErrors(t *testing.T) {
	cases := []struct {
		Name  string
		Input string
		Error error
	}{
		{Name: "double hyphen in comment", Input: `<!-- a -- b -->`, Error: ErrHyphenInComment},
		{Name: "unterminated comment", Input: `<!-- a `, Error: ErrInvalidComment},
		{Name: "unterminated CDATA", Input: `<a><![CDATA[x`, Error: ErrCDATANotFinished},
		{Name: "misplaced CDATA end", Input: `<a>x]]>`, Error: ErrMisplacedCDATAEnd},
		{Name: "xml declaration as PI", Input: `<a><?xml version="1.0"?>`, Error: ErrInvalidProcessingInstruction},
		{Name: "lt in attribute value", Input: `<a b="<">`, Error: ErrLtInAttValue},
		{Name: "unclosed attribute value", Input: `<a b="c`, Error: ErrStringNotClosed},
		{Name: "reference without semicolon", Input: `<a>&amp`, Error: ErrSemicolonRequired},
		{Name: "bare markup declaration", Input: `<a><!ELEMENT a>`, Error: ErrInvalidMarkupDecl},
		{Name: "name starting with digit", Input: `<1a/>`, Error: ErrNameRequired},
		{Name: "name starting with hyphen", Input: `<-a/>`, Error: ErrNameRequired},
		{Name: "name starting with dot", Input: `<.a/>`, Error: ErrNameRequired},
		{Name: "empty character reference", Input: `<a>&#;`, Error: ErrInvalidCharRef},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			s := newScanner([]byte(c.Input))
			var err error
			for err == nil {
				var tok token
				tok, err = s.next()
				if tok.typ == tokEOF {
					break
				}
			}
			require.Error(t, err, "scan should fail")
			require.ErrorIs(t, err, c.Error, "cause should match")
		})
	}
}

func TestScannerNameChars(t *testing.T) {
	// digits, dots and hyphens are fine anywhere but the first rune
	tokens := scanAll(t, `<k_ele.v2 xml:lang="eng"/>`)
	require.Equal(t, "k_ele.v2", tokens[1].val, "element name should scan")
	require.Equal(t, "xml:lang", tokens[2].val, "attribute name should scan")
}

func TestScannerNameTooLong(t *testing.T) {
	s := newScanner([]byte(`<abcdefgh/>`))
	s.maxName = 4

	_, err := s.next()
	require.NoError(t, err, "open tag start should scan")
	_, err = s.next()
	require.ErrorIs(t, err, ErrNameTooLong, "name should exceed the limit")
}

func TestNormalizeNewlines(t *testing.T) {
	require.Equal(t, "a\nb\nc\n", normalizeNewlines("a\r\nb\rc\n"), "newlines should normalize")
	require.Equal(t, "plain", normalizeNewlines("plain"), "text without CR should pass through")
}

func TestDecodeCharRef(t *testing.T) {
	r, err := decodeCharRef("65")
	require.NoError(t, err, "decimal reference should decode")
	require.Equal(t, 'A', r, "decimal value should match")

	r, err = decodeCharRef("x30C6")
	require.NoError(t, err, "hex reference should decode")
	require.Equal(t, 'テ', r, "hex value should match")

	for _, bad := range []string{"", "x", "zz", "x110000", "0", "xD800"} {
		_, err := decodeCharRef(bad)
		require.ErrorIs(t, err, ErrInvalidCharRef, "reference %q should be rejected", bad)
	}
}
