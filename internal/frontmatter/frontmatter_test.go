package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body := Parse(input)
	require.Equal(t, FrontMatter{}, fm)
	require.Equal(t, "# Title\n\nHello", string(body))
}

func TestParse_KnownKeys_PopulatesFields(t *testing.T) {
	input := []byte("---\ntitle: House Rules\nslug: rope-jam\nlang: en\n---\nBody\n")

	fm, body := Parse(input)
	require.Equal(t, "House Rules", fm.Title)
	require.Equal(t, "rope-jam", fm.Slug)
	require.Equal(t, "en", fm.Lang)
	require.Equal(t, "Body", string(body))
}

func TestParse_QuotedValue_UnescapesQuotesAndBackslashes(t *testing.T) {
	input := []byte("---\ntitle: \"Rules: the \\\"full\\\" story \\\\ more\"\n---\nBody")

	fm, _ := Parse(input)
	require.Equal(t, `Rules: the "full" story \ more`, fm.Title)
}

func TestParse_BooleanFlags_AcceptTrueYesOne(t *testing.T) {
	for _, value := range []string{"true", "YES", "1"} {
		fm, _ := Parse([]byte("---\ntranslate: " + value + "\n---\n"))
		require.NotNil(t, fm.Translate)
		require.True(t, *fm.Translate, "value %q", value)
	}

	fm, _ := Parse([]byte("---\nnoindex: nope\n---\n"))
	require.NotNil(t, fm.Noindex)
	require.False(t, *fm.Noindex)
}

func TestParse_AbsentFlags_AreTriStateNil(t *testing.T) {
	fm, _ := Parse([]byte("---\ntitle: x\n---\n"))
	require.Nil(t, fm.Translate)
	require.Nil(t, fm.Noindex)
}

func TestParse_MalformedLines_AreSkippedNotFatal(t *testing.T) {
	input := []byte("---\nnot a pair at all\n: empty key\ntitle: Fine\nbad key: spaced\n---\nBody")

	fm, body := Parse(input)
	require.Equal(t, "Fine", fm.Title)
	require.Equal(t, "Body", string(body))
}

func TestParse_DanglingOpeningMarker_IsAllBody(t *testing.T) {
	input := []byte("---\ntitle: lost\nno closing marker")

	fm, body := Parse(input)
	require.Empty(t, fm.Title)
	require.Equal(t, string(input), string(body))
}

func TestParse_UnknownKeys_PreservedInExtra(t *testing.T) {
	fm, _ := Parse([]byte("---\ncustomField: kept\n---\n"))
	require.Equal(t, "kept", fm.Extra["customField"])
}

func TestSerialize_RoundTrip_PreservesFields(t *testing.T) {
	original := FrontMatter{
		Title:         "Rules: all of them",
		Slug:          "rope-jam",
		Lang:          "fr",
		TranslationOf: "rope-jam",
		Noindex:       boolPtr(true),
		Extra:         map[string]string{"customField": "kept"},
	}

	fm, body := Parse(Serialize(original, []byte("The body.")))
	require.Equal(t, original, fm)
	require.Equal(t, "The body.", string(body))
}

func TestSerialize_OmitsEmptyFields(t *testing.T) {
	out := string(Serialize(FrontMatter{Title: "Only title"}, nil))
	require.Contains(t, out, "title: Only title\n")
	require.NotContains(t, out, "description")
	require.NotContains(t, out, "translate")
}
