package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnchorID_NormalizesHeadingText(t *testing.T) {
	require.Equal(t, "house-rules", AnchorID("House Rules"))
	require.Equal(t, "faq-how-do-i-start", AnchorID("FAQ: How do I start?"))
	require.Equal(t, "a-b", AnchorID("  a   b  "))
	require.Equal(t, "", AnchorID("!!!"))
}

func TestRender_HeadingsGetAnchorIDs(t *testing.T) {
	html, err := NewRenderer().Render([]byte("# House Rules\n\ntext\n"))
	require.NoError(t, err)
	require.Contains(t, html, `id="house-rules"`)
}

func TestRender_DuplicateHeadingsGetSuffixedIDs(t *testing.T) {
	html, err := NewRenderer().Render([]byte("# Setup\n\n# Setup\n"))
	require.NoError(t, err)
	require.Contains(t, html, `id="setup"`)
	require.Contains(t, html, `id="setup-1"`)
}

func TestRender_IsDeterministicAcrossCalls(t *testing.T) {
	r := NewRenderer()
	first, err := r.Render([]byte("# Setup\n"))
	require.NoError(t, err)
	second, err := r.Render([]byte("# Setup\n"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRender_InlineLinksSurvive(t *testing.T) {
	html, err := NewRenderer().Render([]byte("See [the rules](/house-rules/rope-jam)."))
	require.NoError(t, err)
	require.Contains(t, html, `href="/house-rules/rope-jam"`)
}
