package docmodel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

func TestMergeMeta_FrontMatterOverridesDefaults(t *testing.T) {
	def := Defaults{Title: "Site", Description: "Default desc", OGImage: "default.png"}
	fm := frontmatter.FrontMatter{Title: "Page"}

	meta := MergeMeta(def, fm, "en", "page", "page.html")
	require.Equal(t, "Page", meta.Title)
	require.Equal(t, "Default desc", meta.Description)
	require.Equal(t, "default.png", meta.OGImage)
}

func TestMergeMeta_DerivedFieldsAlwaysWin(t *testing.T) {
	fm := frontmatter.FrontMatter{Lang: "fr", Slug: "Raw Slug"}

	meta := MergeMeta(Defaults{}, fm, "fr", "raw-slug", "fr/raw-slug.html")
	require.Equal(t, "fr", meta.Lang)
	require.Equal(t, "raw-slug", meta.Slug)
	require.Equal(t, "fr/raw-slug.html", meta.Output)
}

func TestMergeMeta_TriStateFlagsDefaultFalse(t *testing.T) {
	meta := MergeMeta(Defaults{}, frontmatter.FrontMatter{}, "en", "s", "s.html")
	require.False(t, meta.Translate)
	require.False(t, meta.Noindex)

	flag := false
	meta = MergeMeta(Defaults{}, frontmatter.FrontMatter{Noindex: &flag}, "en", "s", "s.html")
	require.False(t, meta.Noindex)

	flag = true
	meta = MergeMeta(Defaults{}, frontmatter.FrontMatter{Noindex: &flag}, "en", "s", "s.html")
	require.True(t, meta.Noindex)
}

func TestCanonicalKey_TranslationOfOverridesSlug(t *testing.T) {
	require.Equal(t, "orig", PageMeta{Slug: "traduit", TranslationOf: "orig"}.CanonicalKey())
	require.Equal(t, "orig", PageMeta{Slug: "orig"}.CanonicalKey())
}
