package linkverify

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
)

// Document is the extracted verification view of one generated HTML file:
// every href reference plus the set of element identifiers fragments can
// point at.
type Document struct {
	Hrefs   []string
	Anchors map[string]bool
}

// ExtractDocument parses an HTML file and extracts hrefs and anchors.
func ExtractDocument(htmlPath string) (*Document, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ExtractDocumentFromReader(file)
}

// ExtractDocumentFromReader parses HTML from a reader.
//
// Anchors are every explicit id (and legacy a-name) attribute, plus the
// anchor id re-derived from each heading's text with the same hook the
// renderer uses. The two derivations must stay identical or fragment
// validation drifts from what was rendered.
func ExtractDocumentFromReader(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Anchors: map[string]bool{}}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "id"); id != "" {
				doc.Anchors[id] = true
			}
			switch n.Data {
			case "a":
				if href := getAttr(n, "href"); href != "" {
					doc.Hrefs = append(doc.Hrefs, href)
				}
				if name := getAttr(n, "name"); name != "" {
					doc.Anchors[name] = true
				}
			case "link":
				if href := getAttr(n, "href"); href != "" {
					doc.Hrefs = append(doc.Hrefs, href)
				}
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if id := markdown.AnchorID(extractText(n)); id != "" {
					doc.Anchors[id] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractText(c))
	}
	return b.String()
}
