package translate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// linkPattern matches inline Markdown links `[text](href)`. The href part is
// swapped for an inert placeholder before the body goes to the translation
// service; link text stays in place so it is translated with its
// surrounding sentence.
var linkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)

// placeholderPattern matches the tokens ProtectLinks emits. The token shape
// was picked because translation engines pass `@@...@@` runs through
// untouched.
var placeholderPattern = regexp.MustCompile(`@@L(\d+)@@`)

// ProtectLinks replaces every Markdown link destination with a numbered
// placeholder token and returns the protected body plus the extracted hrefs
// in token order.
func ProtectLinks(body string) (string, []string) {
	var hrefs []string
	protected := linkPattern.ReplaceAllStringFunc(body, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		token := fmt.Sprintf("@@L%d@@", len(hrefs))
		hrefs = append(hrefs, parts[2])
		return "[" + parts[1] + "](" + token + ")"
	})
	return protected, hrefs
}

// RestoreLinks re-inserts the extracted hrefs for their placeholder tokens.
// Hrefs come back byte-identical; only the visible link text may have been
// changed by translation. A token the translation mangled beyond
// recognition is an error: silently leaving it in place would publish a
// document with a dead placeholder destination.
func RestoreLinks(body string, hrefs []string) (string, error) {
	var missing []string
	restored := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		idx, err := strconv.Atoi(placeholderPattern.FindStringSubmatch(match)[1])
		if err != nil || idx < 0 || idx >= len(hrefs) {
			missing = append(missing, match)
			return match
		}
		return hrefs[idx]
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("translate: unknown link placeholders after translation: %s", strings.Join(missing, ", "))
	}
	lost := 0
	for _, href := range hrefs {
		if !strings.Contains(restored, href) {
			lost++
		}
	}
	if lost > 0 {
		return "", fmt.Errorf("translate: %d link placeholders lost during translation", lost)
	}
	return restored, nil
}
