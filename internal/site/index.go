package site

import (
	"log/slog"
	"sort"

	"git.home.luguber.info/inful/sitebuilder/internal/docmodel"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// XDefault is the synthetic hreflang tag appended after all real languages.
const XDefault = "x-default"

// AlternateLink is one (language, absolute URL) pair of a page's
// alternate-language link set.
type AlternateLink struct {
	Lang string
	URL  string
}

// Index clusters render plans into translation groups and answers
// canonical/alternate queries for individual plans. It is built once per
// build pass, after all plans exist, and is read-only afterwards.
type Index struct {
	baseURL     string
	defaultLang string
	langOrder   []string
	groups      map[string][]*docmodel.RenderPlan
}

// BuildIndex groups plans by canonical key. Within a group at most one plan
// per language is kept (first wins; duplicates are a content smell worth a
// warning, not a fatal error).
func BuildIndex(plans []*docmodel.RenderPlan, baseURL, defaultLang string, langOrder []string) *Index {
	idx := &Index{
		baseURL:     baseURL,
		defaultLang: defaultLang,
		langOrder:   langOrder,
		groups:      make(map[string][]*docmodel.RenderPlan),
	}
	for _, plan := range plans {
		key := plan.Meta.CanonicalKey()
		if existing := idx.memberForLang(key, plan.Meta.Lang); existing != nil {
			slog.Warn("duplicate language in translation group, keeping first",
				logfields.Lang(plan.Meta.Lang),
				logfields.Source(plan.SourcePath),
				slog.String("group", key))
			continue
		}
		idx.groups[key] = append(idx.groups[key], plan)
	}
	return idx
}

func (idx *Index) memberForLang(key, lang string) *docmodel.RenderPlan {
	for _, member := range idx.groups[key] {
		if member.Meta.Lang == lang {
			return member
		}
	}
	return nil
}

// Group returns all plans sharing the given plan's canonical key.
func (idx *Index) Group(plan *docmodel.RenderPlan) []*docmodel.RenderPlan {
	return idx.groups[plan.Meta.CanonicalKey()]
}

// CanonicalRel returns the canonical relative output for a plan: the
// default-language group member's output, or the plan's own output when the
// group has no default-language member.
func (idx *Index) CanonicalRel(plan *docmodel.RenderPlan) string {
	if member := idx.memberForLang(plan.Meta.CanonicalKey(), idx.defaultLang); member != nil {
		return member.RelOutput
	}
	return plan.RelOutput
}

// CanonicalURL is CanonicalRel resolved to an absolute URL.
func (idx *Index) CanonicalURL(plan *docmodel.RenderPlan) string {
	return PageURL(idx.baseURL, idx.CanonicalRel(plan))
}

// Alternates returns the ordered alternate-language link set for a plan's
// group: default language first, then remaining languages in configured
// order, then unlisted languages alphabetically, then x-default pointing at
// the canonical URL.
func (idx *Index) Alternates(plan *docmodel.RenderPlan) []AlternateLink {
	group := idx.Group(plan)
	members := make(map[string]*docmodel.RenderPlan, len(group))
	for _, member := range group {
		members[member.Meta.Lang] = member
	}

	ordered := make([]string, 0, len(members))
	seen := make(map[string]bool, len(members))
	appendLang := func(lang string) {
		if members[lang] != nil && !seen[lang] {
			ordered = append(ordered, lang)
			seen[lang] = true
		}
	}
	appendLang(idx.defaultLang)
	for _, lang := range idx.langOrder {
		appendLang(lang)
	}
	unlisted := make([]string, 0, len(members))
	for lang := range members {
		if !seen[lang] {
			unlisted = append(unlisted, lang)
		}
	}
	sort.Strings(unlisted)
	ordered = append(ordered, unlisted...)

	links := make([]AlternateLink, 0, len(ordered)+1)
	for _, lang := range ordered {
		links = append(links, AlternateLink{
			Lang: lang,
			URL:  PageURL(idx.baseURL, members[lang].RelOutput),
		})
	}
	links = append(links, AlternateLink{Lang: XDefault, URL: idx.CanonicalURL(plan)})
	return links
}
