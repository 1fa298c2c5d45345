package dictxml

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	patUTF32BE = []byte{0x00, 0x00, 0xfe, 0xff}
	patUTF32LE = []byte{0xff, 0xfe, 0x00, 0x00}
	patUTF16BE = []byte{0xfe, 0xff}
	patUTF16LE = []byte{0xff, 0xfe}
)

// prepareInput validates that the document is UTF-8 and strips a
// leading byte order mark if present. Inputs whose BOM announces a
// UTF-16 or UTF-32 encoding are rejected outright; transcoding is out
// of scope for this parser.
func prepareInput(b []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(b, patUTF32BE), bytes.HasPrefix(b, patUTF32LE):
		return nil, ErrUnsupportedEncoding
	case bytes.HasPrefix(b, patUTF16BE), bytes.HasPrefix(b, patUTF16LE):
		return nil, ErrUnsupportedEncoding
	}

	if !utf8.Valid(b) {
		return nil, ErrInvalidUTF8
	}

	// a UTF-8 BOM is valid but carries no information
	b, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return nil, ErrInvalidUTF8
	}
	return b, nil
}
