package translate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/docmodel"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// metadataFields lists the front-matter string fields that get translated,
// in the order they are sent to the translation service.
var metadataFields = []string{"title", "description", "sidebarTitle", "sidebarSummary", "backLinkLabel"}

// Orchestrator scans the content tree and writes machine-translated sibling
// documents for every eligible source. One invocation runs the full
// SCAN → PLAN → TRANSLATE → WRITE sequence; documents are processed one at
// a time to keep external API pressure bounded.
type Orchestrator struct {
	cfg        *config.Config
	client     Client
	glossaries *GlossaryCache
	warned     bool
}

// plan is one unit of translation work: a single (source document, target
// language) pairing. It only lives for the duration of a Run; its durable
// effect is the written target document.
type plan struct {
	sourcePath string
	sourceRel  string
	targetRel  string
	targetLang string
	key        string
	fm         frontmatter.FrontMatter
	body       []byte
	sourceSlug string
}

// NewOrchestrator wires the orchestrator. A nil client means no translation
// capability is configured; Run then no-ops with a one-time warning.
func NewOrchestrator(cfg *config.Config, client Client) *Orchestrator {
	o := &Orchestrator{cfg: cfg, client: client}
	if client != nil {
		o.glossaries = NewGlossaryCache(client, cfg.Translation.Glossary)
	}
	return o
}

// Run executes one translation pass and returns the number of documents
// translated. With refresh false, targets newer than their source are
// skipped so an unchanged tree costs zero API calls. A translation-call
// failure aborts the run; partial untranslated output is never written
// silently.
func (o *Orchestrator) Run(ctx context.Context, refresh bool) (int, error) {
	if !o.cfg.Translation.Enabled {
		return 0, nil
	}
	if o.client == nil {
		if !o.warned {
			slog.Warn("translation enabled but no API key configured, skipping translation",
				slog.String("env", o.cfg.Translation.APIKeyEnv))
			o.warned = true
		}
		return 0, nil
	}

	plans, err := o.scan(refresh)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, p := range plans {
		if err := o.translateAndWrite(ctx, p); err != nil {
			return done, fmt.Errorf("translate %s to %s: %w", p.sourceRel, p.targetLang, err)
		}
		done++
	}
	if done > 0 {
		slog.Info("translation pass complete", logfields.Count(done))
	}
	return done, nil
}

// scan walks the content tree and produces one plan per eligible source and
// target language. A source is eligible when its resolved language is the
// site default and its translate flag is enabled.
func (o *Orchestrator) scan(refresh bool) ([]*plan, error) {
	var plans []*plan
	root := o.cfg.ContentDir
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		raw, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		fm, body := frontmatter.Parse(raw)
		lang := docmodel.ResolveLanguage(rel, fm.Lang, o.cfg.Languages, o.cfg.DefaultLanguage)
		if lang != o.cfg.DefaultLanguage || fm.Translate == nil || !*fm.Translate {
			return nil
		}

		sourceSlug := docmodel.ResolveSlug(rel, fm.Slug)
		sourceInfo, err := d.Info()
		if err != nil {
			return err
		}
		for _, target := range o.cfg.TargetLanguages() {
			targetRel := targetRelPath(rel, target, o.cfg.Languages)
			if !refresh && upToDate(filepath.Join(root, filepath.FromSlash(targetRel)), sourceInfo.ModTime()) {
				continue
			}
			plans = append(plans, &plan{
				sourcePath: p,
				sourceRel:  rel,
				targetRel:  targetRel,
				targetLang: target,
				key:        canonicalKey(fm, sourceSlug),
				fm:         fm,
				body:       body,
				sourceSlug: sourceSlug,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	return plans, nil
}

// targetRelPath mirrors a source's sub-path into the target language's
// subdirectory. A leading language directory on the source is replaced, not
// nested.
func targetRelPath(sourceRel, targetLang string, languages []string) string {
	sub := sourceRel
	if first, rest, found := strings.Cut(sourceRel, "/"); found {
		for _, lang := range languages {
			if first == lang {
				sub = rest
				break
			}
		}
	}
	return path.Join(targetLang, sub)
}

func canonicalKey(fm frontmatter.FrontMatter, sourceSlug string) string {
	if fm.TranslationOf != "" {
		return fm.TranslationOf
	}
	return sourceSlug
}

// upToDate reports whether target exists and is not older than the source.
func upToDate(targetPath string, sourceMod time.Time) bool {
	info, err := os.Stat(targetPath)
	if err != nil {
		return false
	}
	return !info.ModTime().Before(sourceMod)
}

// translateAndWrite performs the three translation calls for one plan
// (slug, metadata fields, body) and writes the resulting document.
func (o *Orchestrator) translateAndWrite(ctx context.Context, p *plan) error {
	glossaryID := o.glossaries.ID(ctx, o.cfg.DefaultLanguage, p.targetLang)

	slug, err := o.translateSlug(ctx, p, glossaryID)
	if err != nil {
		return err
	}
	fm, err := o.translateMetadata(ctx, p, glossaryID)
	if err != nil {
		return err
	}
	body, err := o.translateBody(ctx, p, glossaryID)
	if err != nil {
		return err
	}

	fm.Lang = p.targetLang
	fm.Slug = slug
	fm.TranslationOf = p.key
	fm.Translate = nil

	targetPath := filepath.Join(o.cfg.ContentDir, filepath.FromSlash(p.targetRel))
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	if err := os.WriteFile(targetPath, frontmatter.Serialize(fm, body), 0o644); err != nil {
		return fmt.Errorf("write translated document: %w", err)
	}
	slog.Info("wrote translated document",
		logfields.Source(p.sourceRel),
		logfields.Output(p.targetRel),
		logfields.TargetLang(p.targetLang))
	return nil
}

// translateSlug translates the slug as space-joined words and re-sanitizes
// the result. An empty sanitized result falls back to the source slug so
// the output path stays derivable.
func (o *Orchestrator) translateSlug(ctx context.Context, p *plan, glossaryID string) (string, error) {
	words := strings.ReplaceAll(p.sourceSlug, "-", " ")
	out, err := o.client.Translate(ctx, []string{words}, p.targetLang, glossaryID)
	if err != nil {
		return "", fmt.Errorf("slug: %w", err)
	}
	slug := docmodel.SanitizeSlug(out[0])
	if slug == "" || slug == docmodel.FallbackSlug {
		return p.sourceSlug, nil
	}
	return slug, nil
}

// translateMetadata translates the fixed set of front-matter string fields
// in a single call, leaving empty fields empty.
func (o *Orchestrator) translateMetadata(ctx context.Context, p *plan, glossaryID string) (frontmatter.FrontMatter, error) {
	fm := p.fm
	values := map[string]*string{
		"title":          &fm.Title,
		"description":    &fm.Description,
		"sidebarTitle":   &fm.SidebarTitle,
		"sidebarSummary": &fm.SidebarSummary,
		"backLinkLabel":  &fm.BackLinkLabel,
	}

	var texts []string
	var targets []*string
	for _, field := range metadataFields {
		if v := values[field]; *v != "" {
			texts = append(texts, *v)
			targets = append(targets, v)
		}
	}
	if len(texts) == 0 {
		return fm, nil
	}
	out, err := o.client.Translate(ctx, texts, p.targetLang, glossaryID)
	if err != nil {
		return fm, fmt.Errorf("metadata: %w", err)
	}
	for i, target := range targets {
		*target = out[i]
	}
	return fm, nil
}

// translateBody protects inline link destinations with placeholder tokens,
// translates the body, then restores the destinations byte-identically.
func (o *Orchestrator) translateBody(ctx context.Context, p *plan, glossaryID string) ([]byte, error) {
	protected, hrefs := ProtectLinks(string(p.body))
	out, err := o.client.Translate(ctx, []string{protected}, p.targetLang, glossaryID)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	restored, err := RestoreLinks(strings.Join(out, "\n"), hrefs)
	if err != nil {
		return nil, err
	}
	return []byte(restored), nil
}
