package markdown

import (
	"strings"
	"unicode"
)

// AnchorID normalizes heading text into an element identifier: lowercased,
// whitespace and punctuation runs collapsed to single hyphens, leading and
// trailing hyphens stripped.
//
// This is the anchor-generation hook shared between rendering and link
// validation; both sides must derive identical IDs for fragment checks to
// be meaningful.
func AnchorID(text string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
