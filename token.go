package dictxml

// tokenType enumerates the lexical units produced by the scanner.
type tokenType int

const (
	tokEOF tokenType = iota
	tokOpenTagStart  // '<'
	tokOpenTagEnd    // '>' terminating a start tag
	tokCloseTagStart // '</'
	tokCloseTagEnd   // '>' terminating an end tag
	tokSelfClose     // '/>'
	tokName          // element or attribute name
	tokAttrEquals    // '=' between attribute name and value
	tokQuotedValue   // quoted attribute value, references unexpanded
	tokText          // character data run, up to the next '<' or '&'
	tokCDATA         // CDATA section content, verbatim
	tokCharRef       // numeric character reference, e.g. "x30B9" or "12486"
	tokEntityRef     // named entity reference, e.g. "amp"
	tokComment       // comment, content discarded
	tokPI            // processing instruction, content discarded
	tokDoctypeStart  // '<!DOCTYPE'
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "EOF"
	case tokOpenTagStart:
		return "OpenTagStart"
	case tokOpenTagEnd:
		return "OpenTagEnd"
	case tokCloseTagStart:
		return "CloseTagStart"
	case tokCloseTagEnd:
		return "CloseTagEnd"
	case tokSelfClose:
		return "SelfClose"
	case tokName:
		return "Name"
	case tokAttrEquals:
		return "AttrEquals"
	case tokQuotedValue:
		return "QuotedValue"
	case tokText:
		return "Text"
	case tokCDATA:
		return "CDATA"
	case tokCharRef:
		return "CharRef"
	case tokEntityRef:
		return "EntityRef"
	case tokComment:
		return "Comment"
	case tokPI:
		return "PI"
	case tokDoctypeStart:
		return "DoctypeStart"
	default:
		return "Unknown"
	}
}

// token is one lexical unit. The scanner owns a token for exactly one
// pull; after that it belongs to the tokenizer.
type token struct {
	typ tokenType
	val string
	pos Position
}
