package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

const buildTemplate = `<!doctype html>
<html>
<head><title>{{TITLE}}</title></head>
<body>{{BODY}}</body>
</html>`

func testSite(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	templatePath := filepath.Join(root, "template.html")
	require.NoError(t, os.WriteFile(templatePath, []byte(buildTemplate), 0o644))
	return &config.Config{
		BaseURL:         "https://gym.example.com",
		ContentDir:      filepath.Join(root, "content"),
		OutputDir:       filepath.Join(root, "out"),
		Template:        templatePath,
		Languages:       []string{"en"},
		DefaultLanguage: "en",
	}
}

func writeSource(t *testing.T, cfg *config.Config, rel, content string) {
	t.Helper()
	p := filepath.Join(cfg.ContentDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestRun_BuildsPagesAssetsAndSitemap(t *testing.T) {
	cfg := testSite(t)
	writeSource(t, cfg, "index.md", "---\ntitle: Home\n---\n\n# Welcome\n\n[Guide](guide.html)\n")
	writeSource(t, cfg, "guide.md", "---\ntitle: Guide\n---\n\n# Setup\n")
	writeSource(t, cfg, "assets/logo.png", "not really a png")

	builder := New(cfg, nil, metrics.Noop{}, nil)
	require.NoError(t, builder.Run(context.Background(), false))

	home := readOutput(t, cfg, "index.html")
	require.Contains(t, home, "<title>Home</title>")
	require.Contains(t, home, `href="guide.html"`)

	guide := readOutput(t, cfg, "guide.html")
	require.Contains(t, guide, "<title>Guide</title>")
	require.Contains(t, guide, `id="setup"`)

	require.Contains(t, readOutput(t, cfg, "sitemap.xml"), "https://gym.example.com/guide")
	require.Equal(t, "not really a png", readOutput(t, cfg, "assets/logo.png"))
}

func TestRun_InjectsCanonicalIntoHead(t *testing.T) {
	cfg := testSite(t)
	writeSource(t, cfg, "guide.md", "---\ntitle: Guide\n---\n\nbody\n")

	require.NoError(t, New(cfg, nil, metrics.Noop{}, nil).Run(context.Background(), false))

	guide := readOutput(t, cfg, "guide.html")
	require.Contains(t, guide, `<link rel="canonical" href="https://gym.example.com/guide">`)
}

func TestRun_OutputCollisionNamesBothSources(t *testing.T) {
	cfg := testSite(t)
	writeSource(t, cfg, "first.md", "---\ntitle: A\nslug: same\n---\n\na\n")
	writeSource(t, cfg, "second.md", "---\ntitle: B\nslug: same\n---\n\nb\n")

	err := New(cfg, nil, metrics.Noop{}, nil).Run(context.Background(), false)
	require.ErrorContains(t, err, "output path collision")
	require.ErrorContains(t, err, "first.md")
	require.ErrorContains(t, err, "second.md")
}

func TestRun_BrokenLinkFailsBuild(t *testing.T) {
	cfg := testSite(t)
	writeSource(t, cfg, "index.md", "---\ntitle: Home\n---\n\n[Gone](/missing.html)\n")

	err := New(cfg, nil, metrics.Noop{}, nil).Run(context.Background(), false)
	require.ErrorContains(t, err, "broken links")
	require.ErrorContains(t, err, "/missing.html")
}

func TestRun_NestedSourceKeepsDirectoryTree(t *testing.T) {
	cfg := testSite(t)
	writeSource(t, cfg, "index.md", "---\ntitle: Home\n---\n\nhome\n")
	writeSource(t, cfg, "house-rules/rope-jam.md", "---\ntitle: Rope Jam\n---\n\nrules\n")

	require.NoError(t, New(cfg, nil, metrics.Noop{}, nil).Run(context.Background(), false))

	require.Contains(t, readOutput(t, cfg, "house-rules/rope-jam.html"), "<title>Rope Jam</title>")
}

func TestCheckUniqueOutputs_PassesOnDistinctPaths(t *testing.T) {
	cfg := testSite(t)
	writeSource(t, cfg, "a.md", "---\ntitle: A\n---\n\na\n")
	writeSource(t, cfg, "b.md", "---\ntitle: B\n---\n\nb\n")

	builder := New(cfg, nil, metrics.Noop{}, nil)
	plans, err := builder.buildPlans()
	require.NoError(t, err)
	require.NoError(t, checkUniqueOutputs(plans))
}

func TestRunOrdered_PreservesInputOrder(t *testing.T) {
	in := []int{5, 1, 4, 2, 3}
	results := runOrdered(in, 2, func(v int) (int, error) {
		return v * 10, nil
	})
	require.Len(t, results, len(in))
	for i, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, in[i]*10, r.Value)
	}
}
