package dictxml

import (
	"errors"
	"fmt"
)

// MaxNameLength bounds XML names so that a malformed document cannot
// make the scanner accumulate without limit.
const MaxNameLength = 50000

var (
	ErrCDATANotFinished             = errors.New("invalid CDATA section (premature end)")
	ErrDeclNotFinished              = errors.New("markup declaration not finished")
	ErrDocTypeMisplaced             = errors.New("DOCTYPE not allowed after the root element")
	ErrDocTypeNameRequired          = errors.New("doctype name required")
	ErrDocTypeNotFinished           = errors.New("doctype not finished")
	ErrDocTypeRedeclared            = errors.New("DOCTYPE already declared")
	ErrDocumentEnd                  = errors.New("extra content at document end")
	ErrEmptyDocument                = errors.New("start tag expected, '<' not found")
	ErrEqualSignRequired            = errors.New("'=' was required here")
	ErrGtRequired                   = errors.New("'>' was required here")
	ErrHyphenInComment              = errors.New("'--' not allowed in comment")
	ErrInvalidCharRef               = errors.New("invalid character reference")
	ErrInvalidComment               = errors.New("invalid comment section")
	ErrInvalidDTD                   = errors.New("invalid DTD section")
	ErrInvalidEntityDecl            = errors.New("invalid entity declaration")
	ErrInvalidMarkupDecl            = errors.New("invalid markup declaration")
	ErrInvalidProcessingInstruction = errors.New("invalid processing instruction")
	ErrInvalidUTF8                  = errors.New("invalid UTF-8 byte sequence")
	ErrInvalidVersionNum            = errors.New("invalid version")
	ErrInvalidXMLDecl               = errors.New("invalid XML declaration")
	ErrLtInAttValue                 = errors.New("'<' not allowed in attribute value")
	ErrMisplacedCDATAEnd            = errors.New("misplaced CDATA end ']]>'")
	ErrNameRequired                 = errors.New("name is required")
	ErrNameTooLong                  = errors.New("name is too long")
	ErrPrematureEOF                 = errors.New("end of document reached")
	ErrSemicolonRequired            = errors.New("';' is required")
	ErrSpaceRequired                = errors.New("space required")
	ErrStrayEndTag                  = errors.New("end tag with no element open")
	ErrStrayText                    = errors.New("text content outside the root element")
	ErrStringNotClosed              = errors.New("quoted string not closed")
	ErrStringNotStarted             = errors.New("quoted string not started")
	ErrUnclosedElement              = errors.New("unexpected end of document: unclosed element")
	ErrUnsupportedEncoding          = errors.New("document encoding is not UTF-8")
)

// ErrParseError wraps any lexical, well-formedness or DTD error with
// the position at which it was detected. All errors returned from
// (*Tokenizer).Next are of this type.
type ErrParseError struct {
	Column     int
	Err        error
	Location   int
	Line       string
	LineNumber int
}

func (e ErrParseError) Error() string {
	return fmt.Sprintf(
		"%s at line %d, column %d\n -> '%s' <-- around here",
		e.Err,
		e.LineNumber,
		e.Column,
		e.Line,
	)
}

func (e ErrParseError) Unwrap() error {
	return e.Err
}

// ErrTagMismatch is returned when a closing tag does not match the
// element currently open.
type ErrTagMismatch struct {
	Open  string
	Close string
}

func (e ErrTagMismatch) Error() string {
	return "closing tag does not match ('" + e.Open + "' != '" + e.Close + "')"
}

// ErrDuplicateAttribute is returned when an attribute name occurs more
// than once within one start tag.
type ErrDuplicateAttribute struct {
	Name string
}

func (e ErrDuplicateAttribute) Error() string {
	return "attribute '" + e.Name + "' redefined"
}

// ErrUndefinedEntity is returned when an entity reference names neither
// a predefined entity nor one declared in the document's DTD.
type ErrUndefinedEntity struct {
	Name string
}

func (e ErrUndefinedEntity) Error() string {
	return "undefined entity '&" + e.Name + ";'"
}

// ErrEntityCycle is returned when expanding an entity would require
// expanding that same entity again.
type ErrEntityCycle struct {
	Name string
}

func (e ErrEntityCycle) Error() string {
	return "entity '&" + e.Name + ";' references itself"
}

// ErrMissingField is returned by DecodeElement when a schema field
// marked required was absent from the element.
type ErrMissingField struct {
	Elem  string
	Field string
}

func (e ErrMissingField) Error() string {
	return "element <" + e.Elem + "> is missing required field '" + e.Field + "'"
}

// ErrFieldConvert is returned by DecodeElement when a field's content
// cannot be converted to the bound Go type.
type ErrFieldConvert struct {
	Elem  string
	Field string
	Err   error
}

func (e ErrFieldConvert) Error() string {
	return "cannot convert field '" + e.Field + "' of element <" + e.Elem + ">: " + e.Err.Error()
}

func (e ErrFieldConvert) Unwrap() error {
	return e.Err
}
