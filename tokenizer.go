package dictxml

import (
	"io"
	"strings"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/pkg/errors"
)

type tokenizerState int

const (
	tsPrologue tokenizerState = iota
	tsContent
	tsEpilogue
)

// Tokenizer is a pull parser: each call to Next returns the next
// document event. It enforces well-formedness (tag balance, unique
// attributes, a single root element) and expands character and entity
// references, consulting the DTD built from the document's internal
// subset. A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	scanner *scanner
	dtd     *DTD
	elems   elemStack
	state   tokenizerState
	err     error

	peeked    token
	hasPeeked bool

	// name of a self-closed element whose EndElement is still owed
	pendingClose string
	textbuf      strings.Builder

	keepBlanks bool
	parseDTD   bool
	maxName    int

	version    string
	encoding   string
	standalone bool
}

// TokenizerOption configures a Tokenizer at construction time.
type TokenizerOption func(*Tokenizer)

// WithKeepBlanks controls whether text events consisting entirely of
// whitespace are reported. The default is true; element-heavy corpora
// are usually parsed with this off.
func WithKeepBlanks(b bool) TokenizerOption {
	return func(t *Tokenizer) {
		t.keepBlanks = b
	}
}

// WithMaxNameLength overrides the default bound on XML name length.
func WithMaxNameLength(n int) TokenizerOption {
	return func(t *Tokenizer) {
		t.maxName = n
	}
}

// WithoutDTD disables interpretation of entity declarations in the
// internal subset. The DOCTYPE is still scanned structurally, but every
// non-predefined entity reference will fail as undefined.
func WithoutDTD() TokenizerOption {
	return func(t *Tokenizer) {
		t.parseDTD = false
	}
}

// New creates a Tokenizer reading the entire document from r. The
// input must be UTF-8; a leading BOM is accepted and skipped.
func New(r io.Reader, options ...TokenizerOption) (*Tokenizer, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}
	return NewFromBytes(buf, options...)
}

// NewFromBytes is like New for callers that already hold the document
// in memory. The buffer is not copied and must not be modified while
// the Tokenizer is in use.
func NewFromBytes(b []byte, options ...TokenizerOption) (*Tokenizer, error) {
	b, err := prepareInput(b)
	if err != nil {
		return nil, err
	}

	t := &Tokenizer{
		keepBlanks: true,
		parseDTD:   true,
		maxName:    MaxNameLength,
		version:    "1.0",
		encoding:   "UTF-8",
	}
	for _, o := range options {
		o(t)
	}

	t.scanner = newScanner(b)
	t.scanner.maxName = t.maxName

	// [23] XMLDecl ::= '<?xml' VersionInfo EncodingDecl? SDDecl? S? '?>'
	// note the trailing constraint: '<?xml-stylesheet' is a PI, not a
	// malformed declaration
	if t.scanner.curHasPrefix("<?xml") && isBlankCh(t.scanner.curPeek(6)) {
		if err := t.parseXMLDecl(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Version reports the version from the XML declaration, or "1.0" when
// the document has none.
func (t *Tokenizer) Version() string {
	return t.version
}

// Encoding reports the encoding name from the XML declaration, or
// "UTF-8" when the document has none.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}

// Standalone reports whether the XML declaration carried
// standalone="yes".
func (t *Tokenizer) Standalone() bool {
	return t.standalone
}

// DTD returns the document type declaration, or nil if the document
// has none. It is only fully populated once tokenization has passed
// the prologue.
func (t *Tokenizer) DTD() *DTD {
	return t.dtd
}

// errorAt wraps err with a previously captured position, for failures
// detected after the cursor has moved past their cause.
func (t *Tokenizer) errorAt(pos Position, err error) error {
	if _, ok := err.(ErrParseError); ok {
		return err
	}

	return ErrParseError{
		Column:     pos.Column,
		Err:        err,
		Line:       t.scanner.cursor.CurrentLine(),
		LineNumber: pos.Line,
		Location:   pos.Offset,
	}
}

func (t *Tokenizer) nextToken() (token, error) {
	if t.hasPeeked {
		t.hasPeeked = false
		return t.peeked, nil
	}
	return t.scanner.next()
}

// Next returns the next event, or io.EOF once the document has been
// fully consumed. Any other error is fatal: the same error is returned
// from every subsequent call.
func (t *Tokenizer) Next() (Event, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	if t.err != nil {
		return nil, t.err
	}

	ev, err := t.next()
	if err != nil {
		t.err = err
		return nil, err
	}
	return ev, nil
}

func (t *Tokenizer) next() (Event, error) {
	if t.pendingClose != "" {
		name := t.pendingClose
		t.pendingClose = ""
		if t.elems.Len() == 0 {
			t.state = tsEpilogue
		}
		return EndElement{Name: name}, nil
	}

	for {
		tok, err := t.nextToken()
		if err != nil {
			return nil, err
		}

		switch t.state {
		case tsPrologue:
			ev, err := t.prologue(tok)
			if ev != nil || err != nil {
				return ev, err
			}
		case tsContent:
			ev, err := t.content(tok)
			if ev != nil || err != nil {
				return ev, err
			}
		default: // tsEpilogue
			ev, err := t.epilogue(tok)
			if ev != nil || err != nil {
				return ev, err
			}
		}
	}
}

/*
 * [22] prolog ::= XMLDecl? Misc* (doctypedecl Misc*)?
 * [27] Misc   ::= Comment | PI | S
 */
func (t *Tokenizer) prologue(tok token) (Event, error) {
	switch tok.typ {
	case tokComment, tokPI:
		return nil, nil
	case tokText:
		if !isBlankText(tok.val) {
			return nil, t.errorAt(tok.pos, ErrStrayText)
		}
		return nil, nil
	case tokCDATA, tokCharRef, tokEntityRef:
		return nil, t.errorAt(tok.pos, ErrStrayText)
	case tokDoctypeStart:
		if t.dtd != nil {
			return nil, t.errorAt(tok.pos, ErrDocTypeRedeclared)
		}
		if err := t.parseDocTypeDecl(); err != nil {
			return nil, err
		}
		return nil, nil
	case tokOpenTagStart:
		t.state = tsContent
		return t.parseStartTag(tok.pos)
	case tokCloseTagStart:
		return nil, t.errorAt(tok.pos, ErrStrayEndTag)
	case tokEOF:
		return nil, t.errorAt(tok.pos, ErrEmptyDocument)
	default:
		return nil, t.errorAt(tok.pos, ErrStrayText)
	}
}

func (t *Tokenizer) content(tok token) (Event, error) {
	switch tok.typ {
	case tokText:
		t.textbuf.WriteString(tok.val)
		return nil, nil
	case tokCDATA:
		t.textbuf.WriteString(tok.val)
		return nil, nil
	case tokCharRef:
		r, err := decodeCharRef(tok.val)
		if err != nil {
			return nil, t.errorAt(tok.pos, err)
		}
		t.textbuf.WriteRune(r)
		return nil, nil
	case tokEntityRef:
		v, err := t.resolveEntity(tok.val, tok.pos)
		if err != nil {
			return nil, err
		}
		t.textbuf.WriteString(v)
		return nil, nil
	}

	// markup ends the current text run
	if t.textbuf.Len() > 0 {
		v := t.textbuf.String()
		t.textbuf.Reset()
		if t.keepBlanks || !isBlankText(v) {
			t.peeked = tok
			t.hasPeeked = true
			return Text(v), nil
		}
	}

	switch tok.typ {
	case tokComment, tokPI:
		return nil, nil
	case tokOpenTagStart:
		return t.parseStartTag(tok.pos)
	case tokCloseTagStart:
		return t.parseEndTag(tok.pos)
	case tokDoctypeStart:
		return nil, t.errorAt(tok.pos, ErrDocTypeMisplaced)
	case tokEOF:
		open, _ := t.elems.peek()
		return nil, t.errorAt(open.pos, ErrUnclosedElement)
	default:
		return nil, t.errorAt(tok.pos, ErrStrayText)
	}
}

func (t *Tokenizer) epilogue(tok token) (Event, error) {
	switch tok.typ {
	case tokComment, tokPI:
		return nil, nil
	case tokText:
		if !isBlankText(tok.val) {
			return nil, t.errorAt(tok.pos, ErrDocumentEnd)
		}
		return nil, nil
	case tokEOF:
		return nil, io.EOF
	default:
		return nil, t.errorAt(tok.pos, ErrDocumentEnd)
	}
}

/*
 * [40] STag       ::= '<' Name (S Attribute)* S? '>'
 * [44] EmptyElemTag ::= '<' Name (S Attribute)* S? '/>'
 *
 * The scanner has consumed the '<'; pos points at it.
 */
func (t *Tokenizer) parseStartTag(pos Position) (Event, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	tok, err := t.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.typ != tokName {
		return nil, t.errorAt(tok.pos, ErrNameRequired)
	}
	name := tok.val

	var attrs attrList
	for {
		tok, err := t.nextToken()
		if err != nil {
			return nil, err
		}
		switch tok.typ {
		case tokOpenTagEnd:
			t.elems.push(openElement{name: name, pos: pos})
			return StartElement{Name: name, Attributes: attrs.attributes()}, nil
		case tokSelfClose:
			t.pendingClose = name
			return StartElement{Name: name, Attributes: attrs.attributes()}, nil
		case tokName:
			if err := t.parseAttribute(&attrs, tok); err != nil {
				return nil, err
			}
		default:
			return nil, t.errorAt(tok.pos, ErrGtRequired)
		}
	}
}

/*
 * [41] Attribute ::= Name Eq AttValue
 *
 * The value is expanded here: attribute text never reaches the caller
 * with references still in it.
 */
func (t *Tokenizer) parseAttribute(attrs *attrList, nameTok token) error {
	tok, err := t.nextToken()
	if err != nil {
		return err
	}
	if tok.typ != tokAttrEquals {
		return t.errorAt(tok.pos, ErrEqualSignRequired)
	}

	tok, err = t.nextToken()
	if err != nil {
		return err
	}
	if tok.typ != tokQuotedValue {
		return t.errorAt(tok.pos, ErrStringNotStarted)
	}

	value, err := t.expandText(tok.val, tok.pos, expansionFrame{})
	if err != nil {
		return err
	}

	if err := attrs.add(nameTok.val, value); err != nil {
		return t.errorAt(nameTok.pos, ErrDuplicateAttribute{Name: nameTok.val})
	}
	return nil
}

/*
 * [42] ETag ::= '</' Name S? '>'
 */
func (t *Tokenizer) parseEndTag(pos Position) (Event, error) {
	tok, err := t.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.typ != tokName {
		return nil, t.errorAt(tok.pos, ErrNameRequired)
	}
	name := tok.val
	namePos := tok.pos

	tok, err = t.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.typ != tokCloseTagEnd {
		return nil, t.errorAt(tok.pos, ErrGtRequired)
	}

	open, ok := t.elems.pop()
	if !ok {
		return nil, t.errorAt(pos, ErrStrayEndTag)
	}
	if open.name != name {
		return nil, t.errorAt(namePos, ErrTagMismatch{Open: open.name, Close: name})
	}

	if t.elems.Len() == 0 {
		t.state = tsEpilogue
	}
	return EndElement{Name: name}, nil
}

/*
 * [24] VersionInfo ::= S 'version' Eq ("'" VersionNum "'" | '"' VersionNum '"')
 * [25] Eq          ::= S? '=' S?
 * [26] VersionNum  ::= '1.' [0-9]+
 * [32] SDDecl      ::= S 'standalone' Eq ("'" ('yes'|'no') "'" | '"' ('yes'|'no') '"')
 *
 * The scanner has matched '<?xml' followed by whitespace.
 */
func (t *Tokenizer) parseXMLDecl() error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	s := t.scanner
	s.curAdvance(5)

	s.skipBlanks()
	if !s.curConsumePrefix("version") {
		return s.error(ErrInvalidXMLDecl)
	}
	if err := s.eq(); err != nil {
		return err
	}
	v, err := s.quoted()
	if err != nil {
		return err
	}
	if !validVersionNum(v) {
		return s.error(ErrInvalidVersionNum)
	}
	t.version = v

	hadSpace := s.skipBlanks()

	if s.curHasPrefix("encoding") {
		if !hadSpace {
			return s.error(ErrSpaceRequired)
		}
		s.curAdvance(8)
		if err := s.eq(); err != nil {
			return err
		}
		enc, err := s.quoted()
		if err != nil {
			return err
		}
		if !strings.EqualFold(enc, "UTF-8") {
			return s.error(ErrUnsupportedEncoding)
		}
		t.encoding = enc
		hadSpace = s.skipBlanks()
	}

	if s.curHasPrefix("standalone") {
		if !hadSpace {
			return s.error(ErrSpaceRequired)
		}
		s.curAdvance(10)
		if err := s.eq(); err != nil {
			return err
		}
		sd, err := s.quoted()
		if err != nil {
			return err
		}
		switch sd {
		case "yes":
			t.standalone = true
		case "no":
			t.standalone = false
		default:
			return s.error(ErrInvalidXMLDecl)
		}
		s.skipBlanks()
	}

	if !s.curConsumePrefix("?>") {
		return s.error(ErrDeclNotFinished)
	}
	return nil
}

func (s *scanner) eq() error {
	s.skipBlanks()
	if s.curPeek(1) != '=' {
		return s.error(ErrEqualSignRequired)
	}
	s.curAdvance(1)
	s.skipBlanks()
	return nil
}

func validVersionNum(v string) bool {
	if !strings.HasPrefix(v, "1.") || len(v) < 3 {
		return false
	}
	for _, c := range v[2:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isBlankText(s string) bool {
	for _, c := range s {
		if !isBlankCh(c) {
			return false
		}
	}
	return true
}
