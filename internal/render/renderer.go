package render

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/docmodel"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// ErrNoHeadTag is returned when a template has no closing head tag. There
// is no safe fallback insertion point for generated head metadata, so this
// is fatal.
var ErrNoHeadTag = errors.New("template has no closing </head> tag")

// Token names a placeholder a template may contain. The set is closed; this
// is deliberately not a general template engine.
type Token string

const (
	TokenTitle            Token = "TITLE"
	TokenBody             Token = "BODY"
	TokenLang             Token = "LANG"
	TokenBackLinkHref     Token = "BACK_LINK_HREF"
	TokenBackLinkLabel    Token = "BACK_LINK_LABEL"
	TokenSidebarTitle     Token = "SIDEBAR_TITLE"
	TokenSidebarSummary   Token = "SIDEBAR_SUMMARY"
	TokenYear             Token = "YEAR"
	TokenLanguageSwitcher Token = "LANGUAGE_SWITCHER"
)

// requiredTokens must appear in every template; their absence is a warning,
// not an error (the page still renders, just without that slot).
var requiredTokens = []Token{TokenTitle, TokenBody}

var knownTokens = map[Token]bool{
	TokenTitle: true, TokenBody: true, TokenLang: true,
	TokenBackLinkHref: true, TokenBackLinkLabel: true,
	TokenSidebarTitle: true, TokenSidebarSummary: true,
	TokenYear: true, TokenLanguageSwitcher: true,
}

var (
	tokenPattern   = regexp.MustCompile(`\{\{([A-Z_]+)\}\}`)
	headTagPattern = regexp.MustCompile(`(?i)</head\s*>`)
)

// Renderer merges render plans into templates and injects generated head
// metadata. It needs the group index because canonical and alternate links
// are group-level data.
type Renderer struct {
	cfg   *config.Config
	cache *TemplateCache
	idx   *site.Index
	now   func() time.Time
}

// NewRenderer wires a renderer for one build pass.
func NewRenderer(cfg *config.Config, cache *TemplateCache, idx *site.Index) *Renderer {
	return &Renderer{cfg: cfg, cache: cache, idx: idx, now: time.Now}
}

// Page renders one plan to a complete HTML document. Returned warnings are
// non-fatal findings (unknown or missing placeholders, missing OG image);
// they are also logged.
func (r *Renderer) Page(plan *docmodel.RenderPlan) ([]byte, []string, error) {
	templatePath := r.cfg.Template
	if plan.RelOutput == "index.html" && r.cfg.HomeTemplate != "" {
		templatePath = r.cfg.HomeTemplate
	}
	template, err := r.cache.Load(templatePath)
	if err != nil {
		return nil, nil, err
	}

	warnings := r.checkTokens(template, plan)
	page := r.substitute(template, plan)

	head, headWarnings := r.headBlock(plan)
	warnings = append(warnings, headWarnings...)
	loc := headTagPattern.FindStringIndex(page)
	if loc == nil {
		return nil, warnings, fmt.Errorf("%w: %s", ErrNoHeadTag, templatePath)
	}
	page = page[:loc[0]] + head + page[loc[0]:]

	for _, warning := range warnings {
		slog.Warn(warning, logfields.Page(plan.RelOutput))
	}
	return []byte(page), warnings, nil
}

// checkTokens validates the template's placeholders against the allowed
// set: unknown tokens and missing required tokens each yield one warning.
func (r *Renderer) checkTokens(template string, plan *docmodel.RenderPlan) []string {
	var warnings []string
	present := map[Token]bool{}
	for _, match := range tokenPattern.FindAllStringSubmatch(template, -1) {
		token := Token(match[1])
		if !knownTokens[token] {
			warnings = append(warnings, fmt.Sprintf("unknown template placeholder {{%s}}", token))
			continue
		}
		present[token] = true
	}
	for _, token := range requiredTokens {
		if !present[token] {
			warnings = append(warnings, fmt.Sprintf("template is missing placeholder {{%s}}", token))
		}
	}
	return warnings
}

func (r *Renderer) substitute(template string, plan *docmodel.RenderPlan) string {
	meta := plan.Meta
	replacer := strings.NewReplacer(
		"{{TITLE}}", html.EscapeString(meta.Title),
		"{{BODY}}", plan.HTML,
		"{{LANG}}", meta.Lang,
		"{{BACK_LINK_HREF}}", meta.BackLinkHref,
		"{{BACK_LINK_LABEL}}", html.EscapeString(meta.BackLinkLabel),
		"{{SIDEBAR_TITLE}}", html.EscapeString(meta.SidebarTitle),
		"{{SIDEBAR_SUMMARY}}", html.EscapeString(meta.SidebarSummary),
		"{{YEAR}}", strconv.Itoa(r.now().Year()),
		"{{LANGUAGE_SWITCHER}}", r.languageSwitcher(plan),
	)
	return replacer.Replace(template)
}

// languageSwitcher builds per-page navigation markup over the plan's group
// members, using the same URL normalization as every other emitted link.
// The current language renders unlinked.
func (r *Renderer) languageSwitcher(plan *docmodel.RenderPlan) string {
	alternates := r.idx.Alternates(plan)
	if len(alternates) <= 2 { // only the page itself plus x-default
		return ""
	}
	var b strings.Builder
	b.WriteString(`<nav class="language-switcher"><ul>`)
	for _, alt := range alternates {
		if alt.Lang == site.XDefault {
			continue
		}
		label := strings.ToUpper(alt.Lang)
		if alt.Lang == plan.Meta.Lang {
			fmt.Fprintf(&b, `<li class="current"><span lang="%s">%s</span></li>`, attr(alt.Lang), label)
			continue
		}
		fmt.Fprintf(&b, `<li><a href="%s" hreflang="%s" lang="%s">%s</a></li>`, attr(alt.URL), attr(alt.Lang), attr(alt.Lang), label)
	}
	b.WriteString(`</ul></nav>`)
	return b.String()
}

// headBlock generates the metadata inserted immediately before </head>.
func (r *Renderer) headBlock(plan *docmodel.RenderPlan) (string, []string) {
	meta := plan.Meta
	var warnings []string
	var b strings.Builder

	canonical := r.idx.CanonicalURL(plan)
	writeTag := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	writeTag(`<meta name="description" content="%s">`, attr(meta.Description))
	writeTag(`<link rel="canonical" href="%s">`, attr(canonical))

	writeTag(`<meta property="og:url" content="%s">`, attr(canonical))
	writeTag(`<meta property="og:title" content="%s">`, attr(meta.Title))
	writeTag(`<meta property="og:description" content="%s">`, attr(meta.Description))
	if meta.OGImage != "" {
		writeTag(`<meta property="og:image" content="%s">`, attr(r.imageURL(meta.OGImage)))
	} else {
		warnings = append(warnings, "no Open Graph image configured, omitting og:image")
	}

	card := "summary"
	if meta.TwitterImage != "" {
		card = "summary_large_image"
	}
	writeTag(`<meta name="twitter:card" content="%s">`, card)
	writeTag(`<meta name="twitter:title" content="%s">`, attr(meta.Title))
	writeTag(`<meta name="twitter:description" content="%s">`, attr(meta.Description))
	// No fallback from og:image: the Twitter image renders only when an
	// explicit per-card image was supplied.
	if meta.TwitterImage != "" {
		writeTag(`<meta name="twitter:image" content="%s">`, attr(r.imageURL(meta.TwitterImage)))
	}

	for _, alt := range r.idx.Alternates(plan) {
		writeTag(`<link rel="alternate" hreflang="%s" href="%s">`, attr(alt.Lang), attr(alt.URL))
	}
	if meta.Noindex {
		writeTag(`<meta name="robots" content="noindex">`)
	}
	return b.String(), warnings
}

// attr escapes a value for use inside a double-quoted HTML attribute.
func attr(value string) string {
	return html.EscapeString(value)
}

// imageURL resolves an image reference to an absolute URL; already-absolute
// references pass through verbatim.
func (r *Renderer) imageURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return r.cfg.BaseURL + "/" + strings.TrimPrefix(ref, "/")
}
