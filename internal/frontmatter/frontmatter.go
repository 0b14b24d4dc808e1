package frontmatter

import (
	"bytes"
	"strings"
)

// Marker is the line that bounds a front-matter block.
const Marker = "---"

// FrontMatter holds the metadata block of a content document.
//
// All fields are optional; absent string fields are empty and the two boolean
// flags are tri-state pointers so defaults can distinguish "unset" from
// "explicitly false". Keys this package does not know about are preserved in
// Extra so a rewrite round trip does not drop hand-maintained metadata.
type FrontMatter struct {
	Title          string
	Description    string
	SidebarTitle   string
	SidebarSummary string
	BackLinkHref   string
	BackLinkLabel  string
	Slug           string
	Lang           string
	TranslationOf  string
	Translate      *bool
	Noindex        *bool
	OGImage        string
	TwitterImage   string

	Extra map[string]string
}

// Split separates the front-matter block (Marker delimited) from the body.
//
// The block exists only when the first line is exactly Marker and a second
// Marker line follows; otherwise had is false and body is the full input.
// Split never fails: a dangling opening marker is treated as body text.
func Split(content []byte) (block []byte, body []byte, had bool) {
	text := string(content)
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != Marker {
		return nil, content, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == Marker {
			block := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return []byte(block), []byte(body), true
		}
	}
	return nil, content, false
}

// Parse extracts front matter and body from a raw document.
//
// Metadata lines are `key: value` pairs; values may be double-quoted with
// `\"` and `\\` escapes. Lines that do not parse are skipped, never fatal.
func Parse(content []byte) (FrontMatter, []byte) {
	block, body, had := Split(content)
	fm := FrontMatter{}
	if !had {
		return fm, bytes.TrimSpace(body)
	}
	for _, line := range strings.Split(string(block), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := splitPair(line)
		if !ok {
			continue
		}
		fm.set(key, value)
	}
	return fm, bytes.TrimSpace(body)
}

func splitPair(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	value = strings.TrimSpace(line[idx+1:])
	if unquoted, ok := unquote(value); ok {
		value = unquoted
	}
	return key, value, true
}

func unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s, false
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			switch inner[i+1] {
			case '"', '\\':
				b.WriteByte(inner[i+1])
				i++
				continue
			}
		}
		b.WriteByte(inner[i])
	}
	return b.String(), true
}

func (fm *FrontMatter) set(key, value string) {
	switch key {
	case "title":
		fm.Title = value
	case "description":
		fm.Description = value
	case "sidebarTitle":
		fm.SidebarTitle = value
	case "sidebarSummary":
		fm.SidebarSummary = value
	case "backLinkHref":
		fm.BackLinkHref = value
	case "backLinkLabel":
		fm.BackLinkLabel = value
	case "slug":
		fm.Slug = value
	case "lang":
		fm.Lang = value
	case "translationOf":
		fm.TranslationOf = value
	case "translate":
		fm.Translate = boolPtr(parseBool(value))
	case "noindex":
		fm.Noindex = boolPtr(parseBool(value))
	case "ogImage":
		fm.OGImage = value
	case "twitterImage":
		fm.TwitterImage = value
	default:
		if fm.Extra == nil {
			fm.Extra = map[string]string{}
		}
		fm.Extra[key] = value
	}
}

// parseBool accepts true/yes/1 case-insensitively; anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func boolPtr(v bool) *bool { return &v }
