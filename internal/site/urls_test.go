package site

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestPageURL_RootIndexResolvesToBaseWithSlash(t *testing.T) {
	require.Equal(t, "https://example.com/", PageURL("https://example.com", "index.html"))
}

func TestPageURL_DirectoryIndexCollapsesToDirectory(t *testing.T) {
	require.Equal(t, "https://example.com/sub", PageURL("https://example.com", "sub/index.html"))
}

func TestPageURL_PlainPageStripsHTMLSuffix(t *testing.T) {
	require.Equal(t, "https://example.com/house-rules/rope-jam", PageURL("https://example.com", "house-rules/rope-jam.html"))
}

func TestPageURL_TrailingSlashOnBaseIsHarmless(t *testing.T) {
	require.Equal(t, "https://example.com/a", PageURL("https://example.com/", "a.html"))
}

func TestNormalizeRel_IndexOnlyCollapsesAsFinalSegment(t *testing.T) {
	// A page named index-like in the middle of the path must not collapse.
	require.Equal(t, "index-of-terms", NormalizeRel("index-of-terms.html"))
	require.Equal(t, "sub/indexing", NormalizeRel("sub/indexing.html"))
}

func TestNormalizeRel_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	segment := gen.RegexMatch(`[a-z][a-z0-9-]{0,8}`)

	properties.Property("never keeps the .html suffix", prop.ForAll(
		func(a, b string) bool {
			return !strings.HasSuffix(NormalizeRel(a+"/"+b+".html"), ".html")
		},
		segment, segment,
	))

	properties.Property("idempotent over already-normalized paths", prop.ForAll(
		func(a, b string) bool {
			once := NormalizeRel(a + "/" + b + ".html")
			return NormalizeRel(once) == once
		},
		segment, segment,
	))

	properties.TestingRun(t)
}
