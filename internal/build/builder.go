package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/docmodel"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/linkverify"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/translate"
)

// defaultConcurrency bounds the per-stage document fan-out.
const defaultConcurrency = 8

// Builder runs full build passes. It owns the long-lived caches (templates,
// glossary ids via the orchestrator) so a watch loop can reuse one Builder
// across rebuilds.
type Builder struct {
	cfg          *config.Config
	markdown     *markdown.Renderer
	templates    *render.TemplateCache
	orchestrator *translate.Orchestrator
	recorder     metrics.Recorder
	publisher    *linkverify.Publisher
}

// New wires a builder. translator and publisher may be nil; recorder must
// not be (use metrics.Noop{}).
func New(cfg *config.Config, translator translate.Client, recorder metrics.Recorder, publisher *linkverify.Publisher) *Builder {
	return &Builder{
		cfg:          cfg,
		markdown:     markdown.NewRenderer(),
		templates:    render.NewTemplateCache(),
		orchestrator: translate.NewOrchestrator(cfg, translator),
		recorder:     recorder,
		publisher:    publisher,
	}
}

// InvalidateTemplates drops cached templates; the watch loop calls this
// before re-triggering a build so template edits take effect.
func (b *Builder) InvalidateTemplates() {
	b.templates.Invalidate()
}

// Run executes one full build pass. Stages gate-wait on each other:
// translation completes before any plan is built, all plans exist before
// grouping, and the whole group index exists before any template renders.
// A fatal error at any stage aborts the build; there is no partial rollback.
func (b *Builder) Run(ctx context.Context, refreshTranslations bool) (err error) {
	buildID := uuid.NewString()
	start := time.Now()
	log := slog.With(logfields.BuildID(buildID))
	defer func() {
		b.recorder.BuildCompleted(time.Since(start), err == nil)
	}()

	translated, err := b.orchestrator.Run(ctx, refreshTranslations)
	if err != nil {
		return err
	}
	b.recorder.TranslationsPerformed(translated)
	log.Debug("stage complete", logfields.Stage("translate"), logfields.Count(translated))

	plans, err := b.buildPlans()
	if err != nil {
		return err
	}
	if err := checkUniqueOutputs(plans); err != nil {
		return err
	}
	log.Debug("stage complete", logfields.Stage("plan"), logfields.Count(len(plans)))

	idx := site.BuildIndex(plans, b.cfg.BaseURL, b.cfg.DefaultLanguage, b.cfg.Languages)

	if err := b.renderAll(plans, idx); err != nil {
		return err
	}
	b.recorder.PagesRendered(len(plans))
	log.Debug("stage complete", logfields.Stage("render"), logfields.Count(len(plans)))

	if err := b.copyAssets(); err != nil {
		return err
	}
	if err := b.writeSitemap(plans, idx); err != nil {
		return err
	}

	checker := linkverify.NewChecker(b.cfg.OutputDir, buildID, b.publisher)
	broken, err := checker.Run(ctx)
	if err != nil {
		return err
	}
	b.recorder.BrokenLinksFound(len(broken))
	if err := linkverify.Aggregate(broken); err != nil {
		return err
	}

	log.Info("build complete",
		logfields.Count(len(plans)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

// buildPlans scans the content tree and constructs every render plan
// concurrently. Translated siblings written by the orchestrator are picked
// up here like any other source.
func (b *Builder) buildPlans() ([]*docmodel.RenderPlan, error) {
	sources, err := listSources(b.cfg.ContentDir, ".md")
	if err != nil {
		return nil, err
	}
	results := runOrdered(sources, defaultConcurrency, b.buildPlan)
	plans := make([]*docmodel.RenderPlan, 0, len(results))
	for _, result := range results {
		if result.Err != nil {
			return nil, result.Err
		}
		plans = append(plans, result.Value)
	}
	return plans, nil
}

func (b *Builder) buildPlan(rel string) (*docmodel.RenderPlan, error) {
	sourcePath := filepath.Join(b.cfg.ContentDir, filepath.FromSlash(rel))
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	fm, body := frontmatter.Parse(raw)

	lang := docmodel.ResolveLanguage(rel, fm.Lang, b.cfg.Languages, b.cfg.DefaultLanguage)
	slug := docmodel.ResolveSlug(rel, fm.Slug)
	output := docmodel.OutputPath(rel, slug)

	html, err := b.markdown.Render(body)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", rel, err)
	}

	defaults := docmodel.Defaults{
		Title:          b.cfg.Defaults.Title,
		Description:    b.cfg.Defaults.Description,
		SidebarTitle:   b.cfg.Defaults.SidebarTitle,
		SidebarSummary: b.cfg.Defaults.SidebarSummary,
		BackLinkHref:   b.cfg.Defaults.BackLinkHref,
		BackLinkLabel:  b.cfg.Defaults.BackLinkLabel,
		OGImage:        b.cfg.Defaults.OGImage,
		TwitterImage:   b.cfg.Defaults.TwitterImage,
	}
	return &docmodel.RenderPlan{
		SourcePath: sourcePath,
		OutputPath: filepath.Join(b.cfg.OutputDir, filepath.FromSlash(output)),
		RelOutput:  output,
		HTML:       html,
		Meta:       docmodel.MergeMeta(defaults, fm, lang, slug, output),
	}, nil
}

// checkUniqueOutputs enforces the output-path uniqueness invariant; a
// collision is a content error worth naming both sources.
func checkUniqueOutputs(plans []*docmodel.RenderPlan) error {
	byOutput := make(map[string]*docmodel.RenderPlan, len(plans))
	for _, plan := range plans {
		if other, exists := byOutput[plan.RelOutput]; exists {
			return fmt.Errorf("output path collision: %s and %s both resolve to %s",
				other.SourcePath, plan.SourcePath, plan.RelOutput)
		}
		byOutput[plan.RelOutput] = plan
	}
	return nil
}

// renderAll renders and writes every page concurrently. The group index is
// complete before this stage starts, which canonical/alternate resolution
// depends on.
func (b *Builder) renderAll(plans []*docmodel.RenderPlan, idx *site.Index) error {
	renderer := render.NewRenderer(b.cfg, b.templates, idx)
	results := runOrdered(plans, defaultConcurrency, func(plan *docmodel.RenderPlan) (struct{}, error) {
		page, _, err := renderer.Page(plan)
		if err != nil {
			return struct{}{}, fmt.Errorf("render %s: %w", plan.RelOutput, err)
		}
		if err := os.MkdirAll(filepath.Dir(plan.OutputPath), 0o755); err != nil {
			return struct{}{}, err
		}
		if err := os.WriteFile(plan.OutputPath, page, 0o644); err != nil {
			return struct{}{}, fmt.Errorf("write %s: %w", plan.RelOutput, err)
		}
		return struct{}{}, nil
	})
	for _, result := range results {
		if result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// copyAssets mirrors non-markdown files from the content tree into the
// output tree so asset references validate against real files.
func (b *Builder) copyAssets() error {
	return filepath.WalkDir(b.cfg.ContentDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasSuffix(d.Name(), ".md") {
			return err
		}
		rel, err := filepath.Rel(b.cfg.ContentDir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		dst := filepath.Join(b.cfg.OutputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
}

func (b *Builder) writeSitemap(plans []*docmodel.RenderPlan, idx *site.Index) error {
	data, err := site.GenerateSitemap(plans, idx, b.cfg.BaseURL)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.cfg.OutputDir, site.SitemapFileName), data, 0o644)
}

// listSources returns content-relative slash paths of files with the given
// suffix, sorted for deterministic stage input order.
func listSources(root, suffix string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}
