package site

import (
	"path"
	"strings"
)

// NormalizeRel converts a relative output path into its public URL path:
// the .html suffix is stripped and a trailing "/index" (or bare "index")
// collapses to the directory root.
//
// Every URL the build emits (canonical links, alternates, sitemap entries,
// language switcher) must go through this function; cross-page links
// silently diverge otherwise.
func NormalizeRel(relOutput string) string {
	p := strings.TrimSuffix(path.Clean(strings.ReplaceAll(relOutput, "\\", "/")), ".html")
	if p == "index" || p == "." {
		return ""
	}
	p = strings.TrimSuffix(p, "/index")
	return p
}

// PageURL builds the absolute public URL for a relative output path.
// The site root is the base URL with a trailing slash.
func PageURL(baseURL, relOutput string) string {
	base := strings.TrimRight(baseURL, "/")
	rel := NormalizeRel(relOutput)
	if rel == "" {
		return base + "/"
	}
	return base + "/" + rel
}
