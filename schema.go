package dictxml

import (
	"strconv"
)

// SetFunc receives the fully expanded text bound to a schema field and
// stores it wherever the caller pointed it. Returning an error marks
// the containing element as undecodable.
type SetFunc func(raw string) error

// NestedFunc is called each time the named child element is
// encountered. It returns a schema for decoding that child, usually
// bound to a freshly allocated value, and a commit function invoked
// only if the child decoded without error.
type NestedFunc func() (*Schema, func())

type fieldKind int

const (
	attrField fieldKind = iota
	elemField
	nestedField
	textField
)

type schemaField struct {
	name     string
	kind     fieldKind
	required bool
	set      SetFunc
	nested   NestedFunc

	seen bool
}

// Schema describes how one element maps onto Go values. Bindings are
// explicit: only the names listed here are decoded, everything else in
// the element is skipped. A Schema carries per-decode bookkeeping and
// must not be shared between concurrently running decodes.
type Schema struct {
	fields []*schemaField
}

// NewSchema returns an empty schema. Bindings are added with the
// chainable Attr, Elem, Nested and Text methods.
func NewSchema() *Schema {
	return &Schema{}
}

// Attr binds an attribute of the element to fn.
func (s *Schema) Attr(name string, fn SetFunc) *Schema {
	s.fields = append(s.fields, &schemaField{name: name, kind: attrField, set: fn})
	return s
}

// Elem binds the text content of a child element to fn. The child's
// own markup, if any, is skipped; only its directly contained text is
// passed on.
func (s *Schema) Elem(name string, fn SetFunc) *Schema {
	s.fields = append(s.fields, &schemaField{name: name, kind: elemField, set: fn})
	return s
}

// Nested binds a child element to a sub-schema of its own.
func (s *Schema) Nested(name string, fn NestedFunc) *Schema {
	s.fields = append(s.fields, &schemaField{name: name, kind: nestedField, nested: fn})
	return s
}

// Text binds the element's own directly contained text to fn.
func (s *Schema) Text(fn SetFunc) *Schema {
	s.fields = append(s.fields, &schemaField{name: "#text", kind: textField, set: fn})
	return s
}

// Required marks the most recently added binding as mandatory: if the
// element closes without it having been seen, decoding fails.
func (s *Schema) Required() *Schema {
	if len(s.fields) == 0 {
		panic("dictxml: Required called on empty schema")
	}
	s.fields[len(s.fields)-1].required = true
	return s
}

func (s *Schema) lookupAttr(name string) *schemaField {
	for _, f := range s.fields {
		if f.kind == attrField && f.name == name {
			return f
		}
	}
	return nil
}

func (s *Schema) lookupElem(name string) *schemaField {
	for _, f := range s.fields {
		if (f.kind == elemField || f.kind == nestedField) && f.name == name {
			return f
		}
	}
	return nil
}

// String stores the text as is.
func String(p *string) SetFunc {
	return func(raw string) error {
		*p = raw
		return nil
	}
}

// Strings appends the text, for elements that may repeat.
func Strings(p *[]string) SetFunc {
	return func(raw string) error {
		*p = append(*p, raw)
		return nil
	}
}

// Int parses the text as a base-10 integer.
func Int(p *int) SetFunc {
	return func(raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
}

// Ints appends base-10 integers, for elements that may repeat.
func Ints(p *[]int) SetFunc {
	return func(raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*p = append(*p, v)
		return nil
	}
}

// Uint parses the text as a base-10 unsigned integer.
func Uint(p *uint) SetFunc {
	return func(raw string) error {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		*p = uint(v)
		return nil
	}
}

// Float64 parses the text as a floating point number.
func Float64(p *float64) SetFunc {
	return func(raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
}

// Bool parses the text with strconv.ParseBool.
func Bool(p *bool) SetFunc {
	return func(raw string) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
}

// Flag records that the binding was present at all; the text itself is
// ignored. Dictionary formats often use empty marker elements this way.
func Flag(p *bool) SetFunc {
	return func(string) error {
		*p = true
		return nil
	}
}
