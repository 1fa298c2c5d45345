// Package dictxml implements a streaming, pull-based XML parser that
// understands Document Type Declarations well enough to extract custom
// general-entity definitions and expand references to them in element
// text and attribute values. It exists for dictionary corpora such as
// JMdict and kanjidic, which declare dozens of custom entities in an
// internal DTD subset and use them pervasively.
package dictxml

// Version is the library version, reported by the bundled tools.
const Version = "0.9.0"

// Position identifies a location in the input document. It is attached
// to every token and error for diagnostics.
type Position struct {
	// Offset is the byte offset from the start of the document.
	Offset int
	// Line is the 1-based line number.
	Line int
	// Column is the 1-based column number within the line.
	Column int
}

// Attribute is a single name/value pair on a start tag. The value has
// all character and entity references expanded.
type Attribute struct {
	Name  string
	Value string
}

// Event is one unit of parsed document structure, yielded by
// (*Tokenizer).Next. The concrete types are StartElement, EndElement
// and Text.
type Event interface {
	event()
}

// StartElement is the opening tag of an element, with its attributes
// in document order. Attribute names are unique within one element.
type StartElement struct {
	Name       string
	Attributes []Attribute
}

// EndElement is the closing tag of an element. A self-closing tag
// produces a StartElement immediately followed by an EndElement.
type EndElement struct {
	Name string
}

// Text is character data between tags, with all references expanded.
// CDATA section content appears verbatim.
type Text string

func (StartElement) event() {}
func (EndElement) event()   {}
func (Text) event()         {}

// Attr returns the value of the named attribute and whether it was
// present on the element.
func (e StartElement) Attr(name string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
