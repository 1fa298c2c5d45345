package dictxml

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

/*
 * [V 4.6] the five entities every XML processor must predefine.
 */
func resolvePredefinedEntity(name string) (string, bool) {
	switch name {
	case "lt":
		return "<", true
	case "gt":
		return ">", true
	case "amp":
		return "&", true
	case "apos":
		return "'", true
	case "quot":
		return `"`, true
	default:
		return "", false
	}
}

// expansionFrame is the transient state of one expansion call: the set
// of entity names currently being expanded, used to detect reference
// cycles. Bounding expansion by cycle detection instead of a depth
// limit keeps behavior independent of the host stack size.
type expansionFrame map[string]struct{}

// resolveEntity returns the fully expanded replacement for the named
// entity, consulting the predefined set first and then the document's
// entity table.
func (t *Tokenizer) resolveEntity(name string, pos Position) (string, error) {
	return t.expandEntity(name, pos, expansionFrame{})
}

func (t *Tokenizer) expandEntity(name string, pos Position, frame expansionFrame) (string, error) {
	if v, ok := resolvePredefinedEntity(name); ok {
		return v, nil
	}

	var content string
	var ok bool
	if t.dtd != nil {
		content, ok = t.dtd.LookupEntity(name)
	}
	if !ok {
		return "", t.errorAt(pos, ErrUndefinedEntity{Name: name})
	}

	if _, active := frame[name]; active {
		return "", t.errorAt(pos, ErrEntityCycle{Name: name})
	}
	frame[name] = struct{}{}
	defer delete(frame, name)

	// replacement text may itself contain references
	return t.expandText(content, pos, frame)
}

// expandText rewrites all character and entity references in s. It is
// used for attribute values and for entity replacement text, both of
// which the scanner hands over raw.
func (t *Tokenizer) expandText(s string, pos Position, frame expansionFrame) (string, error) {
	if !strings.ContainsRune(s, '&') {
		return s, nil
	}

	var buf strings.Builder
	for {
		i := strings.IndexByte(s, '&')
		if i < 0 {
			buf.WriteString(s)
			return buf.String(), nil
		}
		buf.WriteString(s[:i])
		s = s[i+1:]

		j := strings.IndexByte(s, ';')
		if j < 0 {
			return "", t.errorAt(pos, ErrSemicolonRequired)
		}
		ref := s[:j]
		s = s[j+1:]

		if strings.HasPrefix(ref, "#") {
			r, err := decodeCharRef(ref[1:])
			if err != nil {
				return "", t.errorAt(pos, err)
			}
			buf.WriteRune(r)
			continue
		}

		v, err := t.expandEntity(ref, pos, frame)
		if err != nil {
			return "", err
		}
		buf.WriteString(v)
	}
}

/*
 * [66] CharRef ::= '&#' [0-9]+ ';' | '&#x' [0-9a-fA-F]+ ';'
 *
 * [WFC: Legal Character]
 * Characters referred to using character references must match the
 * production for Char.
 */
func decodeCharRef(ref string) (rune, error) {
	base := 10
	if strings.HasPrefix(ref, "x") {
		base = 16
		ref = ref[1:]
	}
	if ref == "" {
		return utf8.RuneError, ErrInvalidCharRef
	}

	val, err := strconv.ParseUint(ref, base, 32)
	if err != nil {
		return utf8.RuneError, ErrInvalidCharRef
	}
	r := rune(val)
	if r > unicode.MaxRune || !isChar(r) {
		return utf8.RuneError, ErrInvalidCharRef
	}
	return r, nil
}
