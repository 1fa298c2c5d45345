package dictxml

import (
	"sort"

	"github.com/lestrrat-go/pdebug/v3"
)

// DTD holds what the document's DOCTYPE declared. Only general-entity
// definitions are retained semantically; everything else in the
// internal subset is recognized and skipped. The table is built once
// while parsing the DOCTYPE and is read-only afterwards.
type DTD struct {
	name      string
	publicID  string
	systemID  string
	entities  map[string]string
	pentities map[string]string
}

func newDTD() *DTD {
	return &DTD{
		entities:  map[string]string{},
		pentities: map[string]string{},
	}
}

// Name returns the root element name from the DOCTYPE declaration.
func (dtd *DTD) Name() string {
	return dtd.name
}

// ExternalID returns the public and system identifiers of the external
// subset, if any. External subsets are never fetched.
func (dtd *DTD) ExternalID() (publicID, systemID string) {
	return dtd.publicID, dtd.systemID
}

// RegisterEntity records a general entity's raw replacement text. The
// first declaration of a name wins; later duplicates are ignored, per
// conventional DTD semantics.
func (dtd *DTD) RegisterEntity(name, content string) {
	if _, ok := dtd.entities[name]; ok {
		return
	}
	dtd.entities[name] = content
}

// RegisterParameterEntity records a parameter entity. Parameter
// entities are recognized so their declarations do not derail the
// subset scan, but they are not usable in document content.
func (dtd *DTD) RegisterParameterEntity(name, content string) {
	if _, ok := dtd.pentities[name]; ok {
		return
	}
	dtd.pentities[name] = content
}

// LookupEntity returns the raw (unexpanded) replacement text for a
// general entity.
func (dtd *DTD) LookupEntity(name string) (string, bool) {
	ret, ok := dtd.entities[name]
	return ret, ok
}

// EntityNames returns the names of all declared general entities in
// sorted order.
func (dtd *DTD) EntityNames() []string {
	names := make([]string, 0, len(dtd.entities))
	for name := range dtd.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

/*
 * [28] doctypedecl ::= '<!DOCTYPE' S Name (S ExternalID)? S?
 *                      ('[' intSubset ']' S?)? '>'
 *
 * The scanner has already consumed '<!DOCTYPE'.
 */
func (t *Tokenizer) parseDocTypeDecl() error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	s := t.scanner
	s.skipBlanks()

	name, err := s.name()
	if err != nil {
		return s.error(ErrDocTypeNameRequired)
	}

	dtd := newDTD()
	dtd.name = name

	if s.skipBlanks() {
		pub, sys, err := t.parseExternalID()
		if err != nil {
			return err
		}
		dtd.publicID = pub
		dtd.systemID = sys
	}
	s.skipBlanks()

	if s.curPeek(1) == '[' {
		s.curAdvance(1)
		if err := t.parseInternalSubset(dtd); err != nil {
			return err
		}
		s.skipBlanks()
	}

	if s.curPeek(1) != '>' {
		return s.error(ErrDocTypeNotFinished)
	}
	s.curAdvance(1)

	t.dtd = dtd
	return nil
}

/*
 * [75] ExternalID ::= 'SYSTEM' S SystemLiteral
 *                   | 'PUBLIC' S PubidLiteral S SystemLiteral
 *
 * The identifiers are recognized syntactically and recorded but never
 * dereferenced.
 */
func (t *Tokenizer) parseExternalID() (publicID, systemID string, err error) {
	s := t.scanner

	switch {
	case s.curConsumePrefix("SYSTEM"):
		if !s.skipBlanks() {
			return "", "", s.error(ErrSpaceRequired)
		}
		systemID, err = s.literal()
	case s.curConsumePrefix("PUBLIC"):
		if !s.skipBlanks() {
			return "", "", s.error(ErrSpaceRequired)
		}
		if publicID, err = s.literal(); err != nil {
			return "", "", err
		}
		if !s.skipBlanks() {
			return "", "", s.error(ErrSpaceRequired)
		}
		systemID, err = s.literal()
	}
	return publicID, systemID, err
}

/*
 * [28b] intSubset ::= (markupdecl | DeclSep)*
 */
func (t *Tokenizer) parseInternalSubset(dtd *DTD) error {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	s := t.scanner
	for {
		s.skipBlanks()
		if s.curDone() {
			return s.error(ErrDocTypeNotFinished)
		}
		if s.curPeek(1) == ']' {
			s.curAdvance(1)
			return nil
		}
		if err := t.parseMarkupDecl(dtd); err != nil {
			return err
		}
	}
}

/*
 * [29] markupdecl ::= elementdecl | AttlistDecl | EntityDecl |
 *                     NotationDecl | PI | Comment
 *
 * Only ENTITY declarations are interpreted. ELEMENT, ATTLIST and
 * NOTATION declarations are skipped structurally so that the subsystem
 * never fails merely because it does not implement their semantics.
 */
func (t *Tokenizer) parseMarkupDecl(dtd *DTD) error {
	s := t.scanner

	switch {
	case s.curHasPrefix("<!--"):
		return s.comment()
	case s.curHasPrefix("<?"):
		return s.pi()
	case s.curConsumePrefix("<!ENTITY"):
		if !t.parseDTD {
			return t.skipMarkupDecl()
		}
		return t.parseEntityDecl(dtd)
	case s.curConsumePrefix("<!ELEMENT"), s.curConsumePrefix("<!ATTLIST"), s.curConsumePrefix("<!NOTATION"):
		return t.skipMarkupDecl()
	case s.curPeek(1) == '%':
		// PEReference; without parameter entity substitution there is
		// nothing to include, so recognize and move on
		s.curAdvance(1)
		if _, err := s.name(); err != nil {
			return err
		}
		if s.curPeek(1) != ';' {
			return s.error(ErrSemicolonRequired)
		}
		s.curAdvance(1)
		return nil
	default:
		return s.error(ErrInvalidDTD)
	}
}

/*
 * [70] EntityDecl ::= GEDecl | PEDecl
 * [71] GEDecl     ::= '<!ENTITY' S Name S EntityDef S? '>'
 * [72] PEDecl     ::= '<!ENTITY' S '%' S Name S PEDef S? '>'
 * [73] EntityDef  ::= EntityValue | (ExternalID NDataDecl?)
 * [76] NDataDecl  ::= S 'NDATA' S Name
 *
 * The scanner has already consumed '<!ENTITY'. The replacement text is
 * recorded raw; references inside it are expanded at use time.
 */
func (t *Tokenizer) parseEntityDecl(dtd *DTD) error {
	s := t.scanner

	if !s.skipBlanks() {
		return s.error(ErrInvalidEntityDecl)
	}

	param := false
	if s.curPeek(1) == '%' {
		s.curAdvance(1)
		if !s.skipBlanks() {
			return s.error(ErrInvalidEntityDecl)
		}
		param = true
	}

	name, err := s.name()
	if err != nil {
		return s.error(ErrInvalidEntityDecl)
	}
	if !s.skipBlanks() {
		return s.error(ErrInvalidEntityDecl)
	}

	external := false
	if s.curPeek(1) == 'S' || s.curPeek(1) == 'P' {
		pub, sys, err := t.parseExternalID()
		if err != nil {
			return err
		}
		external = pub != "" || sys != ""
	}

	if external {
		// external entities are never fetched; an unparsed entity may
		// carry a notation name which we also only recognize
		s.skipBlanks()
		if s.curConsumePrefix("NDATA") {
			if !s.skipBlanks() {
				return s.error(ErrInvalidEntityDecl)
			}
			if _, err := s.name(); err != nil {
				return s.error(ErrInvalidEntityDecl)
			}
		}
	} else {
		value, err := s.quotedEntityValue()
		if err != nil {
			return err
		}
		if param {
			dtd.RegisterParameterEntity(name, value)
		} else {
			dtd.RegisterEntity(name, value)
		}
	}

	s.skipBlanks()
	if s.curPeek(1) != '>' {
		return s.error(ErrInvalidEntityDecl)
	}
	s.curAdvance(1)
	return nil
}

/*
 * [9] EntityValue ::= '"' ([^%&"] | PEReference | Reference)* '"'
 *                   | "'" ([^%&'] | PEReference | Reference)* "'"
 *
 * A literal '>' inside the value must not terminate the declaration,
 * which is why the value is lexed here rather than scanned over.
 */
func (s *scanner) quotedEntityValue() (string, error) {
	q := s.curPeek(1)
	switch q {
	case '"', '\'':
		s.curAdvance(1)
	default:
		return "", s.error(ErrInvalidEntityDecl)
	}

	i := 1
	for ; s.curHasChars(i); i++ {
		if s.curPeek(i) == q {
			v := s.curConsume(i - 1)
			s.curAdvance(1)
			return normalizeNewlines(v), nil
		}
	}
	return "", s.error(ErrDeclNotFinished)
}

// skipMarkupDecl performs a structural scan to the '>' terminating the
// current declaration, honoring quoted strings so that a '>' inside a
// default value or replacement text does not end the scan early.
func (t *Tokenizer) skipMarkupDecl() error {
	s := t.scanner
	for !s.curDone() {
		switch c := s.curPeek(1); c {
		case '"', '\'':
			if _, err := s.literal(); err != nil {
				return s.error(ErrDeclNotFinished)
			}
		case '>':
			s.curAdvance(1)
			return nil
		default:
			s.curAdvance(1)
		}
	}
	return s.error(ErrDeclNotFinished)
}
