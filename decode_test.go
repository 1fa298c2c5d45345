package dictxml_test

import (
	"io"
	"testing"

	"github.com/dudanian/dictxml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDecodeElement(t *testing.T) {
	const src = `<entry id="7">
  <kanji>日</kanji>
  <kanji>本</kanji>
  <note lang="en">unused</note>
</entry>`

	tok, err := dictxml.NewFromBytes([]byte(src), dictxml.WithKeepBlanks(false))
	require.NoError(t, err, "NewFromBytes should succeed")

	se, err := tok.NextStart("entry")
	require.NoError(t, err, "entry element should be found")

	var got struct {
		ID    int
		Kanji []string
	}
	schema := dictxml.NewSchema().
		Attr("id", dictxml.Int(&got.ID)).Required().
		Elem("kanji", dictxml.Strings(&got.Kanji))
	require.NoError(t, tok.DecodeElement(se, schema), "decode should succeed")

	require.Equal(t, 7, got.ID, "attribute should decode")
	require.Empty(t, cmp.Diff([]string{"日", "本"}, got.Kanji), "repeated elements should accumulate")

	_, err = tok.Next()
	require.Equal(t, io.EOF, err, "subtree should be fully consumed")
}

func TestDecodeNested(t *testing.T) {
	const src = `<word>
  <text>test</text>
  <sense><gloss>trial</gloss><gloss>check</gloss></sense>
  <sense><gloss>exam</gloss></sense>
</word>`

	type sense struct {
		Glosses []string
	}
	var got struct {
		Text   string
		Senses []sense
	}

	tok, err := dictxml.NewFromBytes([]byte(src), dictxml.WithKeepBlanks(false))
	require.NoError(t, err, "NewFromBytes should succeed")

	se, err := tok.NextStart("word")
	require.NoError(t, err, "word element should be found")

	schema := dictxml.NewSchema().
		Elem("text", dictxml.String(&got.Text)).Required().
		Nested("sense", func() (*dictxml.Schema, func()) {
			var s sense
			schema := dictxml.NewSchema().
				Elem("gloss", dictxml.Strings(&s.Glosses))
			return schema, func() { got.Senses = append(got.Senses, s) }
		})
	require.NoError(t, tok.DecodeElement(se, schema), "decode should succeed")

	require.Equal(t, "test", got.Text, "text element should decode")
	require.Empty(t, cmp.Diff(
		[]sense{
			{Glosses: []string{"trial", "check"}},
			{Glosses: []string{"exam"}},
		},
		got.Senses,
	), "nested elements should decode")
}

func TestDecodeUnknownContentIgnored(t *testing.T) {
	const src = `<e mystery="?"><known>yes</known><unknown><deep><deeper/></deep></unknown></e>`

	tok, err := dictxml.NewFromBytes([]byte(src))
	require.NoError(t, err, "NewFromBytes should succeed")

	se, err := tok.NextStart("e")
	require.NoError(t, err, "element should be found")

	var known string
	schema := dictxml.NewSchema().Elem("known", dictxml.String(&known))
	require.NoError(t, tok.DecodeElement(se, schema), "unknown content should not fail the decode")
	require.Equal(t, "yes", known, "known element should decode")
}

func TestDecodeMissingRequired(t *testing.T) {
	tok, err := dictxml.NewFromBytes([]byte(`<e><other>x</other></e>`))
	require.NoError(t, err, "NewFromBytes should succeed")

	se, err := tok.NextStart("e")
	require.NoError(t, err, "element should be found")

	var v string
	schema := dictxml.NewSchema().Elem("needed", dictxml.String(&v)).Required()
	err = tok.DecodeElement(se, schema)

	var missing dictxml.ErrMissingField
	require.ErrorAs(t, err, &missing, "decode should report the missing field")
	require.Equal(t, "e", missing.Elem, "element name should be reported")
	require.Equal(t, "needed", missing.Field, "field name should be reported")
}

func TestDecodeConvertErrorRecoverable(t *testing.T) {
	const src = `<root>
  <e><n>notanumber</n><tail>t</tail></e>
  <e><n>42</n></e>
</root>`

	tok, err := dictxml.NewFromBytes([]byte(src), dictxml.WithKeepBlanks(false))
	require.NoError(t, err, "NewFromBytes should succeed")

	se, err := tok.NextStart("e")
	require.NoError(t, err, "first element should be found")

	var n int
	schema := dictxml.NewSchema().Elem("n", dictxml.Int(&n))
	err = tok.DecodeElement(se, schema)

	var convert dictxml.ErrFieldConvert
	require.ErrorAs(t, err, &convert, "decode should report the conversion failure")
	require.Equal(t, "n", convert.Field, "field name should be reported")

	// the bad subtree is consumed in full, so the stream continues
	se, err = tok.NextStart("e")
	require.NoError(t, err, "second element should still be reachable")
	require.NoError(t, tok.DecodeElement(se, schema), "second element should decode")
	require.Equal(t, 42, n, "value from the second element should stick")
}

func TestDecodeTextAndFlag(t *testing.T) {
	const src = `<reading lang="ja"><nokanji/>かな</reading>`

	tok, err := dictxml.NewFromBytes([]byte(src))
	require.NoError(t, err, "NewFromBytes should succeed")

	se, err := tok.NextStart("reading")
	require.NoError(t, err, "element should be found")

	var (
		lang    string
		nokanji bool
		text    string
	)
	schema := dictxml.NewSchema().
		Attr("lang", dictxml.String(&lang)).
		Elem("nokanji", dictxml.Flag(&nokanji)).
		Text(dictxml.String(&text))
	require.NoError(t, tok.DecodeElement(se, schema), "decode should succeed")

	require.Equal(t, "ja", lang, "attribute should decode")
	require.True(t, nokanji, "empty marker element should set the flag")
	require.Equal(t, "かな", text, "element text should decode")
}

func TestDecodeSelfClosingElement(t *testing.T) {
	tok, err := dictxml.NewFromBytes([]byte(`<root><e id="1"/><e id="2"/></root>`))
	require.NoError(t, err, "NewFromBytes should succeed")

	var ids []int
	schema := dictxml.NewSchema().Attr("id", dictxml.Ints(&ids))
	for {
		se, err := tok.NextStart("e")
		if err == io.EOF {
			break
		}
		require.NoError(t, err, "element should be found")
		require.NoError(t, tok.DecodeElement(se, schema), "decode should succeed")
	}
	require.Equal(t, []int{1, 2}, ids, "both elements should decode")
}
