package docmodel

import "git.home.luguber.info/inful/sitebuilder/internal/frontmatter"

// Defaults are the site-wide fallback values applied beneath front matter.
type Defaults struct {
	Title          string
	Description    string
	SidebarTitle   string
	SidebarSummary string
	BackLinkHref   string
	BackLinkLabel  string
	OGImage        string
	TwitterImage   string
}

// PageMeta is the fully resolved metadata for one output document: site
// defaults overlaid with front matter, plus the derived slug and output path.
type PageMeta struct {
	Title          string
	Description    string
	SidebarTitle   string
	SidebarSummary string
	BackLinkHref   string
	BackLinkLabel  string
	Lang           string
	TranslationOf  string
	Translate      bool
	Noindex        bool
	OGImage        string
	TwitterImage   string

	// Slug is the sanitized slug; it may contain path separators, in which
	// case it encodes the full output sub-path.
	Slug string
	// Output is the final output path relative to the output root,
	// always .html suffixed. Unique across a build.
	Output string
}

// MergeMeta layers metadata with explicit precedence: defaults < front
// matter < derived fields (lang, slug, output). Each layer only overrides
// values the lower layer left unset.
func MergeMeta(def Defaults, fm frontmatter.FrontMatter, lang, slug, output string) PageMeta {
	meta := PageMeta{
		Title:          def.Title,
		Description:    def.Description,
		SidebarTitle:   def.SidebarTitle,
		SidebarSummary: def.SidebarSummary,
		BackLinkHref:   def.BackLinkHref,
		BackLinkLabel:  def.BackLinkLabel,
		OGImage:        def.OGImage,
		TwitterImage:   def.TwitterImage,
	}
	overlay(&meta.Title, fm.Title)
	overlay(&meta.Description, fm.Description)
	overlay(&meta.SidebarTitle, fm.SidebarTitle)
	overlay(&meta.SidebarSummary, fm.SidebarSummary)
	overlay(&meta.BackLinkHref, fm.BackLinkHref)
	overlay(&meta.BackLinkLabel, fm.BackLinkLabel)
	overlay(&meta.OGImage, fm.OGImage)
	overlay(&meta.TwitterImage, fm.TwitterImage)
	meta.TranslationOf = fm.TranslationOf
	if fm.Translate != nil {
		meta.Translate = *fm.Translate
	}
	if fm.Noindex != nil {
		meta.Noindex = *fm.Noindex
	}
	meta.Lang = lang
	meta.Slug = slug
	meta.Output = output
	return meta
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// CanonicalKey is the translation-group key: the explicit translationOf
// override when present, else the slug.
func (m PageMeta) CanonicalKey() string {
	if m.TranslationOf != "" {
		return m.TranslationOf
	}
	return m.Slug
}
