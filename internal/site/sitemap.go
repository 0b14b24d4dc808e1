package site

import (
	"encoding/xml"
	"fmt"
	"sort"

	"git.home.luguber.info/inful/sitebuilder/internal/docmodel"
)

// SitemapFileName is the sitemap's path under the output root.
const SitemapFileName = "sitemap.xml"

type sitemapURLSet struct {
	XMLName   xml.Name     `xml:"urlset"`
	Namespace string       `xml:"xmlns,attr"`
	XHTMLNS   string       `xml:"xmlns:xhtml,attr"`
	URLs      []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string             `xml:"loc"`
	Alternates []sitemapAlternate `xml:"xhtml:link"`
}

type sitemapAlternate struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// GenerateSitemap renders the sitemap XML for all plans. Plans are
// deduplicated by output path (last write wins), noindex plans excluded and
// the remainder sorted by output path so output is deterministic. Each
// entry carries the group's non-x-default alternates as xhtml:link
// annotations.
func GenerateSitemap(plans []*docmodel.RenderPlan, idx *Index, baseURL string) ([]byte, error) {
	byOutput := make(map[string]*docmodel.RenderPlan, len(plans))
	for _, plan := range plans {
		byOutput[plan.RelOutput] = plan
	}
	outputs := make([]string, 0, len(byOutput))
	for rel, plan := range byOutput {
		if plan.Meta.Noindex {
			continue
		}
		outputs = append(outputs, rel)
	}
	sort.Strings(outputs)

	set := sitemapURLSet{
		Namespace: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTMLNS:   "http://www.w3.org/1999/xhtml",
	}
	for _, rel := range outputs {
		plan := byOutput[rel]
		entry := sitemapURL{Loc: PageURL(baseURL, rel)}
		for _, alt := range idx.Alternates(plan) {
			if alt.Lang == XDefault {
				continue
			}
			entry.Alternates = append(entry.Alternates, sitemapAlternate{
				Rel:      "alternate",
				Hreflang: alt.Lang,
				Href:     alt.URL,
			})
		}
		set.URLs = append(set.URLs, entry)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
