package frontmatter

import (
	"sort"
	"strings"
)

// serializeOrder fixes the emission order of known keys so rewritten
// documents stay diffable.
var serializeOrder = []string{
	"title", "description", "sidebarTitle", "sidebarSummary",
	"backLinkHref", "backLinkLabel", "slug", "lang", "translationOf",
	"translate", "noindex", "ogImage", "twitterImage",
}

// Serialize renders a full document: Marker-delimited front matter followed
// by the body. Empty fields are omitted; unknown (Extra) keys follow the
// known ones in sorted order.
func Serialize(fm FrontMatter, body []byte) []byte {
	var b strings.Builder
	b.WriteString(Marker)
	b.WriteString("\n")
	for _, key := range serializeOrder {
		if value, ok := fm.get(key); ok {
			writePair(&b, key, value)
		}
	}
	extraKeys := make([]string, 0, len(fm.Extra))
	for k := range fm.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		writePair(&b, k, fm.Extra[k])
	}
	b.WriteString(Marker)
	b.WriteString("\n\n")
	b.Write(body)
	b.WriteString("\n")
	return []byte(b.String())
}

func (fm FrontMatter) get(key string) (string, bool) {
	switch key {
	case "title":
		return fm.Title, fm.Title != ""
	case "description":
		return fm.Description, fm.Description != ""
	case "sidebarTitle":
		return fm.SidebarTitle, fm.SidebarTitle != ""
	case "sidebarSummary":
		return fm.SidebarSummary, fm.SidebarSummary != ""
	case "backLinkHref":
		return fm.BackLinkHref, fm.BackLinkHref != ""
	case "backLinkLabel":
		return fm.BackLinkLabel, fm.BackLinkLabel != ""
	case "slug":
		return fm.Slug, fm.Slug != ""
	case "lang":
		return fm.Lang, fm.Lang != ""
	case "translationOf":
		return fm.TranslationOf, fm.TranslationOf != ""
	case "translate":
		return formatBool(fm.Translate)
	case "noindex":
		return formatBool(fm.Noindex)
	case "ogImage":
		return fm.OGImage, fm.OGImage != ""
	case "twitterImage":
		return fm.TwitterImage, fm.TwitterImage != ""
	}
	return "", false
}

func formatBool(v *bool) (string, bool) {
	if v == nil {
		return "", false
	}
	if *v {
		return "true", true
	}
	return "false", true
}

func writePair(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(quoteIfNeeded(value))
	b.WriteString("\n")
}

// quoteIfNeeded wraps values that would not survive a naive `key: value`
// reparse: embedded colons, surrounding whitespace, or a leading quote.
func quoteIfNeeded(value string) string {
	needs := strings.Contains(value, ":") ||
		strings.TrimSpace(value) != value ||
		strings.HasPrefix(value, "\"")
	if !needs {
		return value
	}
	escaped := strings.ReplaceAll(value, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
	return "\"" + escaped + "\""
}
