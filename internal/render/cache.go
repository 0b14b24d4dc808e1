package render

import (
	"fmt"
	"os"
	"sync"
)

// TemplateCache memoizes template files by resolved path. It is owned by
// the renderer instance, safe for concurrent use, and exposes an explicit
// Invalidate for the watch loop to call before a rebuild. A redundant
// concurrent first load is wasted work, not a correctness hazard.
type TemplateCache struct {
	mu        sync.Mutex
	templates map[string]string
}

// NewTemplateCache returns an empty cache.
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{templates: map[string]string{}}
}

// Load returns the template at path, reading it at most once until the next
// Invalidate.
func (c *TemplateCache) Load(path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tpl, ok := c.templates[path]; ok {
		return tpl, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	c.templates[path] = string(data)
	return string(data), nil
}

// Invalidate drops every cached template.
func (c *TemplateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates = map[string]string{}
}
