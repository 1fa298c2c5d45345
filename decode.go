package dictxml

import (
	"strings"

	"github.com/lestrrat-go/pdebug/v3"
)

// NextStart advances until a StartElement with the given name is
// returned, descending into subtrees along the way. It returns io.EOF
// if the document ends first.
func (t *Tokenizer) NextStart(name string) (StartElement, error) {
	for {
		ev, err := t.Next()
		if err != nil {
			return StartElement{}, err
		}
		if se, ok := ev.(StartElement); ok && se.Name == name {
			return se, nil
		}
	}
}

// DecodeElement decodes the subtree of se, whose StartElement the
// caller has just received from Next or NextStart, according to the
// schema. Child elements and attributes the schema does not name are
// skipped.
//
// On an ErrMissingField or ErrFieldConvert error the subtree has still
// been consumed in full, so the caller may keep pulling events and
// decode the next sibling. Any other error is a parse error and is
// fatal to the Tokenizer.
func (t *Tokenizer) DecodeElement(se StartElement, schema *Schema) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	for _, f := range schema.fields {
		f.seen = false
	}

	for _, attr := range se.Attributes {
		f := schema.lookupAttr(attr.Name)
		if f == nil {
			continue
		}
		f.seen = true
		if err := f.set(attr.Value); err != nil {
			if derr := t.skipElement(); derr != nil {
				return derr
			}
			return ErrFieldConvert{Elem: se.Name, Field: f.name, Err: err}
		}
	}

	var text strings.Builder
	for {
		ev, err := t.Next()
		if err != nil {
			return err
		}

		switch ev := ev.(type) {
		case Text:
			text.WriteString(string(ev))

		case EndElement:
			for _, f := range schema.fields {
				if f.kind != textField {
					continue
				}
				f.seen = true
				if err := f.set(text.String()); err != nil {
					return ErrFieldConvert{Elem: se.Name, Field: f.name, Err: err}
				}
			}
			for _, f := range schema.fields {
				if f.required && !f.seen {
					return ErrMissingField{Elem: se.Name, Field: f.name}
				}
			}
			return nil

		case StartElement:
			f := schema.lookupElem(ev.Name)
			if f == nil {
				if err := t.skipElement(); err != nil {
					return err
				}
				continue
			}
			f.seen = true

			switch f.kind {
			case elemField:
				raw, err := t.readElementText()
				if err != nil {
					return err
				}
				if err := f.set(raw); err != nil {
					if derr := t.skipElement(); derr != nil {
						return derr
					}
					return ErrFieldConvert{Elem: se.Name, Field: f.name, Err: err}
				}
			case nestedField:
				child, commit := f.nested()
				if err := t.DecodeElement(ev, child); err != nil {
					if recoverableDecodeError(err) {
						if derr := t.skipElement(); derr != nil {
							return derr
						}
					}
					return err
				}
				commit()
			}
		}
	}
}

// recoverableDecodeError reports whether err left the Tokenizer in a
// usable state (the offending subtree fully consumed).
func recoverableDecodeError(err error) bool {
	switch err.(type) {
	case ErrFieldConvert, ErrMissingField:
		return true
	}
	return false
}

// skipElement consumes events until the nearest enclosing element has
// been closed, discarding everything in between.
func (t *Tokenizer) skipElement() error {
	depth := 0
	for {
		ev, err := t.Next()
		if err != nil {
			return err
		}
		switch ev.(type) {
		case StartElement:
			depth++
		case EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// readElementText consumes through the end of the element just opened
// and returns the concatenation of its directly contained text. Nested
// markup is skipped; text inside it is not included.
func (t *Tokenizer) readElementText() (string, error) {
	var buf strings.Builder
	depth := 0
	for {
		ev, err := t.Next()
		if err != nil {
			return "", err
		}
		switch ev := ev.(type) {
		case Text:
			if depth == 0 {
				buf.WriteString(string(ev))
			}
		case StartElement:
			depth++
		case EndElement:
			if depth == 0 {
				return buf.String(), nil
			}
			depth--
		}
	}
}
