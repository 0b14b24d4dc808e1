package docmodel

import (
	"path"
	"strings"
	"unicode"
)

// FallbackSlug replaces slug segments that sanitize down to nothing.
const FallbackSlug = "page"

// ResolveLanguage determines a document's language: explicit front-matter
// language first, else a leading directory segment matching a supported
// language, else the site default.
func ResolveLanguage(relPath, explicit string, languages []string, defaultLang string) string {
	if explicit != "" {
		return explicit
	}
	first, _, found := strings.Cut(path.Clean(filepathToSlash(relPath)), "/")
	if found {
		for _, lang := range languages {
			if first == lang {
				return lang
			}
		}
	}
	return defaultLang
}

// ResolveSlug derives the slug: the explicit front-matter slug if set, else
// the file name without extension. The result is sanitized per segment.
func ResolveSlug(relPath, explicit string) string {
	raw := explicit
	if raw == "" {
		base := path.Base(filepathToSlash(relPath))
		raw = strings.TrimSuffix(base, path.Ext(base))
	}
	return SanitizeSlug(raw)
}

// SanitizeSlug normalizes each path segment of a slug: lowercased,
// non-alphanumeric runs collapsed to a single hyphen, leading/trailing
// hyphens stripped, empty segments replaced with FallbackSlug.
func SanitizeSlug(slug string) string {
	segments := strings.Split(filepathToSlash(slug), "/")
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, sanitizeSegment(seg))
	}
	return strings.Join(out, "/")
}

func sanitizeSegment(seg string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(seg) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	cleaned := strings.Trim(b.String(), "-")
	if cleaned == "" {
		return FallbackSlug
	}
	return cleaned
}

// OutputPath derives the output path (relative to the output root) for a
// document at relPath with the given resolved slug.
//
// A slug containing path separators is used verbatim as the output path,
// which lets front matter redirect a document across directories. Otherwise
// the source directory tree is preserved as-is, language directories
// included, and the slug becomes the file name.
func OutputPath(relPath, slug string) string {
	if strings.Contains(slug, "/") {
		return slug + ".html"
	}
	dir := path.Dir(filepathToSlash(relPath))
	if dir == "." {
		return slug + ".html"
	}
	return path.Join(dir, slug+".html")
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
