package site

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/docmodel"
)

func plan(lang, slug, relOutput string, opts ...func(*docmodel.RenderPlan)) *docmodel.RenderPlan {
	p := &docmodel.RenderPlan{
		RelOutput: relOutput,
		Meta:      docmodel.PageMeta{Lang: lang, Slug: slug, Output: relOutput},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func withTranslationOf(key string) func(*docmodel.RenderPlan) {
	return func(p *docmodel.RenderPlan) { p.Meta.TranslationOf = key }
}

func withNoindex() func(*docmodel.RenderPlan) {
	return func(p *docmodel.RenderPlan) { p.Meta.Noindex = true }
}

const base = "https://example.com"

func TestAlternates_OrderingIsDefaultThenConfiguredThenAlphabetical(t *testing.T) {
	plans := []*docmodel.RenderPlan{
		plan("nl", "guide", "nl/guide.html", withTranslationOf("guide")),
		plan("fr", "guide", "fr/guide.html", withTranslationOf("guide")),
		plan("en", "guide", "guide.html"),
	}
	idx := BuildIndex(plans, base, "en", []string{"en", "fr", "nl"})

	alternates := idx.Alternates(plans[0])
	require.Len(t, alternates, 4)
	require.Equal(t, "en", alternates[0].Lang)
	require.Equal(t, "fr", alternates[1].Lang)
	require.Equal(t, "nl", alternates[2].Lang)
	require.Equal(t, XDefault, alternates[3].Lang)
	require.Equal(t, "https://example.com/guide", alternates[3].URL)
}

func TestAlternates_UnlistedLanguagesSortAlphabetically(t *testing.T) {
	plans := []*docmodel.RenderPlan{
		plan("en", "guide", "guide.html"),
		plan("pt", "guide", "pt/guide.html", withTranslationOf("guide")),
		plan("de", "guide", "de/guide.html", withTranslationOf("guide")),
	}
	idx := BuildIndex(plans, base, "en", []string{"en"})

	alternates := idx.Alternates(plans[0])
	require.Equal(t, []string{"en", "de", "pt", XDefault}, langsOf(alternates))
}

func langsOf(alternates []AlternateLink) []string {
	out := make([]string, len(alternates))
	for i, alt := range alternates {
		out[i] = alt.Lang
	}
	return out
}

func TestCanonicalRel_DefaultLanguageMemberWins(t *testing.T) {
	en := plan("en", "guide", "guide.html")
	fr := plan("fr", "guide", "fr/guide.html", withTranslationOf("guide"))
	idx := BuildIndex([]*docmodel.RenderPlan{en, fr}, base, "en", []string{"en", "fr"})

	require.Equal(t, "guide.html", idx.CanonicalRel(fr))
	require.Equal(t, "https://example.com/guide", idx.CanonicalURL(fr))
}

func TestCanonicalRel_FallsBackToSelfWithoutDefaultMember(t *testing.T) {
	fr := plan("fr", "guide", "fr/guide.html")
	idx := BuildIndex([]*docmodel.RenderPlan{fr}, base, "en", []string{"en", "fr"})

	require.Equal(t, "fr/guide.html", idx.CanonicalRel(fr))
}

func TestBuildIndex_DuplicateLanguageKeepsFirst(t *testing.T) {
	first := plan("en", "guide", "guide.html")
	second := plan("en", "guide", "other/guide.html")
	idx := BuildIndex([]*docmodel.RenderPlan{first, second}, base, "en", []string{"en"})

	require.Len(t, idx.Group(first), 1)
	require.Equal(t, "guide.html", idx.CanonicalRel(second))
}

func TestGroup_KeyedByTranslationOfOverSlug(t *testing.T) {
	en := plan("en", "guide", "guide.html")
	fr := plan("fr", "guide-traduit", "fr/guide-traduit.html", withTranslationOf("guide"))
	idx := BuildIndex([]*docmodel.RenderPlan{en, fr}, base, "en", []string{"en", "fr"})

	require.Len(t, idx.Group(en), 2)
	require.Equal(t, "guide.html", idx.CanonicalRel(fr))
}
