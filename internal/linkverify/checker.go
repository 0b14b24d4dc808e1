package linkverify

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
)

// BrokenLink describes one unresolvable reference.
type BrokenLink struct {
	// Page is the referencing document, relative to the output root.
	Page string
	// Href is the reference as authored.
	Href string
	// Reason says why resolution failed.
	Reason string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s: %q (%s)", b.Page, b.Href, b.Reason)
}

// Checker walks a generated output tree and verifies that every internal
// reference resolves. It runs strictly after all documents are written and
// performs no mutation.
type Checker struct {
	outputDir string
	buildID   string
	publisher *Publisher

	// docs memoizes extracted documents so fragment re-scans of a target
	// file parse it at most once.
	docs map[string]*Document
}

// NewChecker builds a checker over an output tree. publisher may be nil.
func NewChecker(outputDir, buildID string, publisher *Publisher) *Checker {
	return &Checker{
		outputDir: outputDir,
		buildID:   buildID,
		publisher: publisher,
		docs:      map[string]*Document{},
	}
}

// Run validates the whole tree and returns every finding after complete
// enumeration, so one run surfaces all problems at once. It never repairs
// or skips silently. The returned error covers I/O failures only; turning
// findings into a build failure is Aggregate's job.
func (c *Checker) Run(ctx context.Context) ([]BrokenLink, error) {
	var pages []string
	err := filepath.WalkDir(c.outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk output: %w", err)
	}

	var broken []BrokenLink
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		findings, err := c.checkPage(page)
		if err != nil {
			return nil, err
		}
		broken = append(broken, findings...)
	}

	slog.Info("link validation complete",
		slog.Int("pages", len(pages)),
		slog.Int("broken", len(broken)),
		logfields.BuildID(c.buildID))

	c.publish(broken)
	return broken, nil
}

// Aggregate turns validation findings into the single fatal error listing
// every occurrence. Nil when the pass is clean.
func Aggregate(broken []BrokenLink) error {
	if len(broken) == 0 {
		return nil
	}
	lines := make([]string, len(broken))
	for i, b := range broken {
		lines[i] = "  " + b.String()
	}
	return fmt.Errorf("%d broken links:\n%s", len(broken), strings.Join(lines, "\n"))
}

func (c *Checker) checkPage(pagePath string) ([]BrokenLink, error) {
	doc, err := c.document(pagePath)
	if err != nil {
		return nil, err
	}
	relPage, err := filepath.Rel(c.outputDir, pagePath)
	if err != nil {
		return nil, err
	}
	relPage = filepath.ToSlash(relPage)
	docDir := filepath.Dir(pagePath)

	var broken []BrokenLink
	for _, href := range doc.Hrefs {
		if Skippable(href) {
			continue
		}
		if finding := c.checkHref(href, doc, docDir); finding != "" {
			broken = append(broken, BrokenLink{Page: relPage, Href: href, Reason: finding})
		}
	}
	return broken, nil
}

// checkHref returns a non-empty reason when the reference is broken.
func (c *Checker) checkHref(href string, doc *Document, docDir string) string {
	ref, fragment := SplitFragment(href)
	if ref == "" {
		if fragment == "" || hasAnchor(doc, fragment) {
			return ""
		}
		return fmt.Sprintf("no element with id %q in document", fragment)
	}

	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	target := c.resolveTarget(ref, docDir)
	if target == "" {
		return "target not found"
	}
	if fragment == "" {
		return ""
	}
	if !strings.HasSuffix(target, ".html") {
		// Fragment checks only apply to HTML targets; assets cannot carry
		// anchors but resolving the path already proved the file exists.
		return ""
	}
	targetDoc, err := c.document(target)
	if err != nil {
		return fmt.Sprintf("target unreadable: %v", err)
	}
	if !hasAnchor(targetDoc, fragment) {
		return fmt.Sprintf("no element with id %q in target", fragment)
	}
	return ""
}

// resolveTarget tries every candidate base and path variation in contract
// order, returning the first existing file.
func (c *Checker) resolveTarget(ref, docDir string) string {
	for _, candidate := range resolutionCandidates(ref, docDir, c.outputDir) {
		for _, variation := range pathVariations(candidate) {
			if info, err := os.Stat(variation); err == nil && !info.IsDir() {
				return variation
			}
		}
	}
	return ""
}

func hasAnchor(doc *Document, fragment string) bool {
	if doc.Anchors[fragment] {
		return true
	}
	return doc.Anchors[markdown.AnchorID(fragment)]
}

func (c *Checker) document(path string) (*Document, error) {
	if doc, ok := c.docs[path]; ok {
		return doc, nil
	}
	doc, err := ExtractDocument(path)
	if err != nil {
		return nil, err
	}
	c.docs[path] = doc
	return doc, nil
}

func (c *Checker) publish(broken []BrokenLink) {
	if c.publisher == nil {
		return
	}
	now := time.Now()
	for _, b := range broken {
		event := &BrokenLinkEvent{
			URL:        b.Href,
			SourcePath: b.Page,
			Reason:     b.Reason,
			BuildID:    c.buildID,
			Timestamp:  now,
		}
		if err := c.publisher.Publish(event); err != nil {
			slog.Warn("publishing broken-link event failed", logfields.Error(err))
			return
		}
	}
}
