package dictxml

import (
	"strings"

	"github.com/dudanian/dictxml/internal/strcursor"
	"github.com/lestrrat-go/pdebug/v3"
)

// scanMode tells the scanner what kind of lexical unit to expect next.
type scanMode int

const (
	scanText scanMode = iota
	scanOpenTagName
	scanOpenTag
	scanCloseTagName
	scanCloseTag
)

// scanner turns a UTF-8 character stream into tokens. It is stateless
// beyond the cursor position and the current scan mode; names and
// values are not interpreted semantically.
type scanner struct {
	cursor  *strcursor.Cursor
	mode    scanMode
	maxName int
}

func newScanner(b []byte) *scanner {
	return &scanner{
		cursor:  strcursor.New(b),
		mode:    scanText,
		maxName: MaxNameLength,
	}
}

func (s *scanner) pos() Position {
	return Position{
		Offset: s.cursor.OffsetBytes(),
		Line:   s.cursor.LineNumber(),
		Column: s.cursor.Column(),
	}
}

// error wraps err with the current cursor position. Already wrapped
// errors are returned as is.
func (s *scanner) error(err error) error {
	if _, ok := err.(ErrParseError); ok {
		return err
	}

	return ErrParseError{
		Column:     s.cursor.Column(),
		Err:        err,
		Line:       s.cursor.CurrentLine(),
		LineNumber: s.cursor.LineNumber(),
		Location:   s.cursor.OffsetBytes(),
	}
}

func (s *scanner) curHasChars(n int) bool {
	return s.cursor.HasChars(n)
}

func (s *scanner) curDone() bool {
	return s.cursor.Done()
}

func (s *scanner) curAdvance(n int) {
	s.cursor.Advance(n)
}

func (s *scanner) curPeek(n int) rune {
	return s.cursor.Peek(n)
}

func (s *scanner) curConsume(n int) string {
	return s.cursor.Consume(n)
}

func (s *scanner) curConsumePrefix(str string) bool {
	return s.cursor.ConsumePrefix(str)
}

func (s *scanner) curHasPrefix(str string) bool {
	return s.cursor.HasPrefix(str)
}

func isBlankCh(c rune) bool {
	return c == 0x20 || (0x9 <= c && c <= 0xa) || c == 0xd
}

func isLetterCh(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigitCh(c rune) bool {
	return c >= '0' && c <= '9'
}

func isChar(r rune) bool {
	c := uint32(r)
	if c < 0x100 {
		return (0x9 <= c && c <= 0xa) || c == 0xd || 0x20 <= c
	}
	return (0x100 <= c && c <= 0xd7ff) || (0xe000 <= c && c <= 0xfffd) || (0x10000 <= c && c <= 0x10ffff)
}

// skipBlanks consumes whitespace and reports whether any was present,
// so that callers can distinguish optional from mandatory whitespace.
func (s *scanner) skipBlanks() bool {
	i := 1
	for ; s.curHasChars(i); i++ {
		if !isBlankCh(s.curPeek(i)) {
			break
		}
	}
	i--
	if i > 0 {
		s.curAdvance(i)
	}
	return i > 0
}

/*
 * parse an XML name.
 *
 * [4]  NameChar ::= Letter | Digit | '.' | '-' | '_' | ':' |
 *                   CombiningChar | Extender
 * [5]  Name     ::= (Letter | '_' | ':') (NameChar)*
 *
 * In practice we accept the ASCII subset that dictionary corpora use.
 */
func (s *scanner) name() (string, error) {
	if c := s.curPeek(1); !isLetterCh(c) && c != '_' && c != ':' {
		return "", s.error(ErrNameRequired)
	}

	i := 2
	for ; s.curHasChars(i); i++ {
		c := s.curPeek(i)
		if !isLetterCh(c) && !isDigitCh(c) && c != '_' && c != '-' && c != ':' && c != '.' {
			break
		}
	}
	i--
	if i == 0 {
		return "", s.error(ErrNameRequired)
	}
	if i > s.maxName {
		return "", s.error(ErrNameTooLong)
	}

	return s.curConsume(i), nil
}

// quoted lexes a quoted literal and returns the text between the
// quotes with newlines normalized but references untouched.
func (s *scanner) quoted() (string, error) {
	q := s.curPeek(1)
	switch q {
	case '"', '\'':
		s.curAdvance(1)
	default:
		return "", s.error(ErrStringNotStarted)
	}

	i := 1
	for ; s.curHasChars(i); i++ {
		c := s.curPeek(i)
		if c == q {
			v := s.curConsume(i - 1)
			s.curAdvance(1)
			return normalizeNewlines(v), nil
		}
		if c == '<' {
			return "", s.error(ErrLtInAttValue)
		}
	}
	return "", s.error(ErrStringNotClosed)
}

// literal is like quoted but without the '<' restriction; used for
// system and pubid literals in the DTD, which may contain anything but
// the quote character.
func (s *scanner) literal() (string, error) {
	q := s.curPeek(1)
	switch q {
	case '"', '\'':
		s.curAdvance(1)
	default:
		return "", s.error(ErrStringNotStarted)
	}

	i := 1
	for ; s.curHasChars(i); i++ {
		if s.curPeek(i) == q {
			v := s.curConsume(i - 1)
			s.curAdvance(1)
			return v, nil
		}
	}
	return "", s.error(ErrStringNotClosed)
}

// XML 1.0 end-of-line handling: both "\r\n" and a lone "\r" are
// passed to the application as a single "\n".
func normalizeNewlines(str string) string {
	if !strings.ContainsRune(str, '\r') {
		return str
	}
	str = strings.ReplaceAll(str, "\r\n", "\n")
	return strings.ReplaceAll(str, "\r", "\n")
}

// next pulls the next token from the input. Exactly one token is
// produced per call; the scanner looks ahead only as far as needed to
// disambiguate markup delimiters.
func (s *scanner) next() (token, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	switch s.mode {
	case scanText:
		return s.nextText()
	case scanOpenTagName:
		s.mode = scanOpenTag
		return s.nameToken()
	case scanCloseTagName:
		s.mode = scanCloseTag
		return s.nameToken()
	case scanOpenTag:
		return s.nextMarkup(true)
	default: // scanCloseTag
		return s.nextMarkup(false)
	}
}

func (s *scanner) nameToken() (token, error) {
	pos := s.pos()
	name, err := s.name()
	if err != nil {
		return token{}, err
	}
	return token{typ: tokName, val: name, pos: pos}, nil
}

func (s *scanner) nextText() (token, error) {
	pos := s.pos()
	if s.curDone() {
		return token{typ: tokEOF, pos: pos}, nil
	}

	switch s.curPeek(1) {
	case '<':
		switch {
		case s.curHasPrefix("<!--"):
			if err := s.comment(); err != nil {
				return token{}, err
			}
			return token{typ: tokComment, pos: pos}, nil
		case s.curHasPrefix("<![CDATA["):
			v, err := s.cdata()
			if err != nil {
				return token{}, err
			}
			return token{typ: tokCDATA, val: v, pos: pos}, nil
		case s.curHasPrefix("<!DOCTYPE"):
			s.curAdvance(9)
			return token{typ: tokDoctypeStart, pos: pos}, nil
		case s.curHasPrefix("</"):
			s.curAdvance(2)
			s.mode = scanCloseTagName
			return token{typ: tokCloseTagStart, pos: pos}, nil
		case s.curHasPrefix("<?"):
			if err := s.pi(); err != nil {
				return token{}, err
			}
			return token{typ: tokPI, pos: pos}, nil
		case s.curHasPrefix("<!"):
			return token{}, s.error(ErrInvalidMarkupDecl)
		default:
			s.curAdvance(1)
			s.mode = scanOpenTagName
			return token{typ: tokOpenTagStart, pos: pos}, nil
		}
	case '&':
		return s.reference(pos)
	default:
		return s.textRun(pos)
	}
}

func (s *scanner) nextMarkup(open bool) (token, error) {
	s.skipBlanks()
	pos := s.pos()
	if s.curDone() {
		return token{}, s.error(ErrPrematureEOF)
	}

	switch c := s.curPeek(1); {
	case open && c == '/' && s.curPeek(2) == '>':
		s.curAdvance(2)
		s.mode = scanText
		return token{typ: tokSelfClose, pos: pos}, nil
	case c == '>':
		s.curAdvance(1)
		s.mode = scanText
		if open {
			return token{typ: tokOpenTagEnd, pos: pos}, nil
		}
		return token{typ: tokCloseTagEnd, pos: pos}, nil
	case open && c == '=':
		s.curAdvance(1)
		return token{typ: tokAttrEquals, pos: pos}, nil
	case open && (c == '"' || c == '\''):
		v, err := s.quoted()
		if err != nil {
			return token{}, err
		}
		return token{typ: tokQuotedValue, val: v, pos: pos}, nil
	default:
		return s.nameToken()
	}
}

/*
 * [14] CharData ::= [^<&]* - ([^<&]* ']]>' [^<&]*)
 */
func (s *scanner) textRun(pos Position) (token, error) {
	i := 1
	for ; s.curHasChars(i); i++ {
		c := s.curPeek(i)
		if c == '<' || c == '&' {
			break
		}
		if c == ']' && s.curPeek(i+1) == ']' && s.curPeek(i+2) == '>' {
			return token{}, s.error(ErrMisplacedCDATAEnd)
		}
	}
	v := s.curConsume(i - 1)
	return token{typ: tokText, val: normalizeNewlines(v), pos: pos}, nil
}

/*
 * [66] CharRef   ::= '&#' [0-9]+ ';' | '&#x' [0-9a-fA-F]+ ';'
 * [68] EntityRef ::= '&' Name ';'
 *
 * The reference payload is returned raw; decoding (and entity lookup)
 * is the tokenizer's business.
 */
func (s *scanner) reference(pos Position) (token, error) {
	s.curAdvance(1) // '&'

	var typ tokenType
	var val string
	var err error
	if s.curPeek(1) == '#' {
		s.curAdvance(1)
		typ = tokCharRef
		val, err = s.charRefPayload()
	} else {
		typ = tokEntityRef
		val, err = s.name()
	}
	if err != nil {
		return token{}, err
	}

	if s.curPeek(1) != ';' {
		return token{}, s.error(ErrSemicolonRequired)
	}
	s.curAdvance(1)

	return token{typ: typ, val: val, pos: pos}, nil
}

// charRefPayload lexes the digits of a character reference, hex or
// decimal, including the radix marker. Validation of the value is left
// to the decoding step.
func (s *scanner) charRefPayload() (string, error) {
	i := 1
	for ; s.curHasChars(i); i++ {
		c := s.curPeek(i)
		if !isDigitCh(c) && !(c >= 'a' && c <= 'f') && !(c >= 'A' && c <= 'F') && c != 'x' {
			break
		}
	}
	i--
	if i == 0 {
		return "", s.error(ErrInvalidCharRef)
	}

	return s.curConsume(i), nil
}

/*
 * [15] Comment ::= '<!--' ((Char - '-') | ('-' (Char - '-')))* '-->'
 *
 * The comment text is discarded.
 */
func (s *scanner) comment() error {
	s.curAdvance(4) // '<!--'

	i := 1
	for ; s.curHasChars(i); i++ {
		if s.curPeek(i) != '-' || s.curPeek(i+1) != '-' {
			continue
		}
		if s.curPeek(i+2) != '>' {
			return s.error(ErrHyphenInComment)
		}
		s.curAdvance(i + 2)
		return nil
	}
	return s.error(ErrInvalidComment)
}

/*
 * [18] CDSect  ::= CDStart CData CDEnd
 * [19] CDStart ::= '<![CDATA['
 * [20] CData   ::= (Char* - (Char* ']]>' Char*))
 * [21] CDEnd   ::= ']]>'
 */
func (s *scanner) cdata() (string, error) {
	s.curAdvance(9) // '<![CDATA['

	i := 1
	for ; s.curHasChars(i); i++ {
		if s.curPeek(i) == ']' && s.curPeek(i+1) == ']' && s.curPeek(i+2) == '>' {
			v := s.curConsume(i - 1)
			s.curAdvance(3)
			return normalizeNewlines(v), nil
		}
	}
	return "", s.error(ErrCDATANotFinished)
}

/*
 * [16] PI       ::= '<?' PITarget (S (Char* - (Char* '?>' Char*)))? '?>'
 * [17] PITarget ::= Name - (('X' | 'x') ('M' | 'm') ('L' | 'l'))
 *
 * The instruction is discarded.
 */
func (s *scanner) pi() error {
	s.curAdvance(2) // '<?'

	target, err := s.name()
	if err != nil {
		return err
	}
	if strings.EqualFold(target, "xml") {
		// an xml declaration is only valid at the very start of the
		// document, and that one is handled before tokenization
		return s.error(ErrInvalidProcessingInstruction)
	}

	i := 1
	for ; s.curHasChars(i); i++ {
		if s.curPeek(i) == '?' && s.curPeek(i+1) == '>' {
			s.curAdvance(i + 1)
			return nil
		}
	}
	return s.error(ErrInvalidProcessingInstruction)
}
