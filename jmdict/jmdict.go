// Package jmdict reads entries from the JMdict Japanese-English
// dictionary file. The file is XML with a large internal DTD subset
// declaring entities for part-of-speech and usage markers, which the
// underlying parser expands while streaming, so a full dictionary can
// be consumed entry by entry without loading a document tree.
package jmdict

import (
	"io"

	"github.com/dudanian/dictxml"
)

// Entry is one dictionary entry: a sequence number, the kanji and
// reading elements it is written with, and its senses.
type Entry struct {
	Sequence int
	Kanji    []Kanji
	Readings []Reading
	Senses   []Sense
}

// Kanji is a word or short phrase written in kanji.
type Kanji struct {
	Text string
	// orthography notes such as "ateji" or "irregular okurigana usage"
	Information []string
	Priorities  []string
}

// Reading is a kana rendering of the entry.
type Reading struct {
	Text string
	// true when the reading is not a true reading of the kanji
	NoKanji      bool
	Restrictions []string
	Information  []string
	Priorities   []string
}

// Sense is one meaning of the entry, with the glosses that express it
// in English and the grammatical and usage notes that scope it.
type Sense struct {
	Glosses            []string
	RestrictedKanji    []string
	RestrictedReadings []string
	Information        []string
	SourceLanguages    []string
	Dialects           []string
	PartsOfSpeech      []string
	CrossReferences    []string
	Antonyms           []string
	Fields             []string
	Misc               []string
}

// Reader streams entries out of a JMdict document.
type Reader struct {
	tok *dictxml.Tokenizer
}

// NewReader prepares to read the JMdict document in r. The whole
// document is buffered, but entries are only decoded as Read is
// called.
func NewReader(r io.Reader, options ...dictxml.TokenizerOption) (*Reader, error) {
	options = append([]dictxml.TokenizerOption{dictxml.WithKeepBlanks(false)}, options...)
	tok, err := dictxml.New(r, options...)
	if err != nil {
		return nil, err
	}
	return &Reader{tok: tok}, nil
}

// Read returns the next entry, or io.EOF once the document is
// exhausted. A conversion failure in one entry does not poison the
// stream; the next Read continues with the following entry.
func (r *Reader) Read() (*Entry, error) {
	se, err := r.tok.NextStart("entry")
	if err != nil {
		return nil, err
	}

	var e Entry
	if err := r.tok.DecodeElement(se, entrySchema(&e)); err != nil {
		return nil, err
	}
	return &e, nil
}

// DTD exposes the document's type declaration, which for JMdict holds
// the entity table behind markers like &n; and &uk;.
func (r *Reader) DTD() *dictxml.DTD {
	return r.tok.DTD()
}

func entrySchema(e *Entry) *dictxml.Schema {
	return dictxml.NewSchema().
		Elem("ent_seq", dictxml.Int(&e.Sequence)).Required().
		Nested("k_ele", func() (*dictxml.Schema, func()) {
			var k Kanji
			s := dictxml.NewSchema().
				Elem("keb", dictxml.String(&k.Text)).Required().
				Elem("ke_inf", dictxml.Strings(&k.Information)).
				Elem("ke_pri", dictxml.Strings(&k.Priorities))
			return s, func() { e.Kanji = append(e.Kanji, k) }
		}).
		Nested("r_ele", func() (*dictxml.Schema, func()) {
			var rd Reading
			s := dictxml.NewSchema().
				Elem("reb", dictxml.String(&rd.Text)).Required().
				Elem("re_nokanji", dictxml.Flag(&rd.NoKanji)).
				Elem("re_restr", dictxml.Strings(&rd.Restrictions)).
				Elem("re_inf", dictxml.Strings(&rd.Information)).
				Elem("re_pri", dictxml.Strings(&rd.Priorities))
			return s, func() { e.Readings = append(e.Readings, rd) }
		}).
		Nested("sense", func() (*dictxml.Schema, func()) {
			var sn Sense
			s := dictxml.NewSchema().
				Elem("gloss", dictxml.Strings(&sn.Glosses)).
				Elem("stagk", dictxml.Strings(&sn.RestrictedKanji)).
				Elem("stagr", dictxml.Strings(&sn.RestrictedReadings)).
				Elem("s_inf", dictxml.Strings(&sn.Information)).
				Elem("lsource", dictxml.Strings(&sn.SourceLanguages)).
				Elem("dial", dictxml.Strings(&sn.Dialects)).
				Elem("pos", dictxml.Strings(&sn.PartsOfSpeech)).
				Elem("xref", dictxml.Strings(&sn.CrossReferences)).
				Elem("ant", dictxml.Strings(&sn.Antonyms)).
				Elem("field", dictxml.Strings(&sn.Fields)).
				Elem("misc", dictxml.Strings(&sn.Misc))
			return s, func() { e.Senses = append(e.Senses, sn) }
		})
}
