package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// GlossaryCache memoizes glossary ids per (source, target) language pair
// for the process lifetime. The first lookup per pair reuses a remote
// glossary by name when one exists, otherwise creates one from the
// configured entries. Failures degrade to "no glossary" and are cached too,
// so a broken glossary endpoint costs one warning per pair, not one per
// document.
type GlossaryCache struct {
	client Client
	// entries maps target language to forced term translations.
	entries map[string]map[string]string

	mu  sync.Mutex
	ids map[string]string
}

// NewGlossaryCache builds a cache over the configured glossary entries.
func NewGlossaryCache(client Client, entries map[string]map[string]string) *GlossaryCache {
	return &GlossaryCache{
		client:  client,
		entries: entries,
		ids:     map[string]string{},
	}
}

// glossaryName is the deterministic remote name for a language pair, which
// makes glossaries reusable across process restarts.
func glossaryName(sourceLang, targetLang string) string {
	return fmt.Sprintf("sitebuilder-%s-%s", strings.ToLower(sourceLang), strings.ToLower(targetLang))
}

// ID returns the glossary id for a language pair, or "" when no glossary
// applies (no configured entries, or glossary setup failed).
func (g *GlossaryCache) ID(ctx context.Context, sourceLang, targetLang string) string {
	key := sourceLang + ":" + targetLang

	g.mu.Lock()
	defer g.mu.Unlock()
	if id, ok := g.ids[key]; ok {
		return id
	}

	id := g.resolve(ctx, sourceLang, targetLang)
	g.ids[key] = id
	return id
}

func (g *GlossaryCache) resolve(ctx context.Context, sourceLang, targetLang string) string {
	entries := g.entries[targetLang]
	if len(entries) == 0 {
		return ""
	}

	name := glossaryName(sourceLang, targetLang)
	existing, err := g.client.ListGlossaries(ctx)
	if err != nil {
		slog.Warn("listing glossaries failed, continuing without glossary",
			logfields.TargetLang(targetLang), logfields.Error(err))
		return ""
	}
	for _, info := range existing {
		if info.Name == name {
			return info.ID
		}
	}

	id, err := g.client.CreateGlossary(ctx, name, sourceLang, targetLang, entries)
	if err != nil {
		slog.Warn("glossary creation failed, continuing without glossary",
			logfields.TargetLang(targetLang), logfields.Error(err))
		return ""
	}
	slog.Info("created translation glossary",
		logfields.TargetLang(targetLang), logfields.Count(len(entries)))
	return id
}
