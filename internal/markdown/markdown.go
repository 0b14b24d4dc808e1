package markdown

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown bodies to HTML. Each render uses a fresh
// anchor-ID context so heading IDs are deterministic per document.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds the shared Markdown renderer. Raw HTML in bodies is
// passed through; content is trusted (it comes from the site's own tree).
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Render converts a Markdown body to HTML.
func (r *Renderer) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newAnchorIDs()))
	if err := r.md.Convert(body, &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// anchorIDs implements goldmark's parser.IDs using AnchorID, deduplicating
// repeats with a numeric suffix. The link validator re-derives the same IDs
// from heading text, so the two must never diverge.
type anchorIDs struct {
	used map[string]bool
}

func newAnchorIDs() parser.IDs {
	return &anchorIDs{used: map[string]bool{}}
}

func (ids *anchorIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	id := AnchorID(string(value))
	if id == "" {
		id = "heading"
	}
	candidate := id
	for n := 1; ids.used[candidate]; n++ {
		candidate = id + "-" + strconv.Itoa(n)
	}
	ids.used[candidate] = true
	return []byte(candidate)
}

func (ids *anchorIDs) Put(value []byte) {
	ids.used[string(value)] = true
}
