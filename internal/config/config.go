package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config is the full site configuration loaded from YAML.
type Config struct {
	// BaseURL is the absolute public URL of the site, e.g. "https://example.com".
	BaseURL string `yaml:"base_url"`
	// ContentDir holds the source documents. Defaults to "content".
	ContentDir string `yaml:"content_dir,omitempty"`
	// OutputDir receives the generated site. Defaults to "docs".
	OutputDir string `yaml:"output_dir,omitempty"`
	// Template is the page template path.
	Template string `yaml:"template"`
	// HomeTemplate, when set, overrides Template for the site root index.
	HomeTemplate string `yaml:"home_template,omitempty"`

	// Languages lists supported language tags in display order. The first
	// entry doubles as the default when DefaultLanguage is unset.
	Languages       []string `yaml:"languages,omitempty"`
	DefaultLanguage string   `yaml:"default_language,omitempty"`

	Defaults    PageDefaults      `yaml:"defaults,omitempty"`
	Translation TranslationConfig `yaml:"translation,omitempty"`
	Verify      VerifyConfig      `yaml:"verify,omitempty"`
}

// PageDefaults are site-wide fallbacks beneath per-document front matter.
type PageDefaults struct {
	Title          string `yaml:"title,omitempty"`
	Description    string `yaml:"description,omitempty"`
	SidebarTitle   string `yaml:"sidebar_title,omitempty"`
	SidebarSummary string `yaml:"sidebar_summary,omitempty"`
	BackLinkHref   string `yaml:"back_link_href,omitempty"`
	BackLinkLabel  string `yaml:"back_link_label,omitempty"`
	OGImage        string `yaml:"og_image,omitempty"`
	TwitterImage   string `yaml:"twitter_image,omitempty"`
}

// TranslationConfig controls the translation orchestrator.
type TranslationConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	// APIKeyEnv names the environment variable holding the translation API
	// key. The key itself never lives in the config file.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	// Glossary maps a target language to forced term translations applied
	// from the default language.
	Glossary map[string]map[string]string `yaml:"glossary,omitempty"`
}

// APIKey resolves the configured translation API key from the environment.
func (t TranslationConfig) APIKey() string {
	return os.Getenv(t.APIKeyEnv)
}

// VerifyConfig controls broken-link event publishing. Validation itself
// always runs; publishing is opt-in via NATSURL.
type VerifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load reads, normalizes and validates a configuration file. Validation
// failures are fatal before any build work starts.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.OutputDir == "" {
		c.OutputDir = "docs"
	}
	if len(c.Languages) == 0 {
		c.Languages = []string{"en"}
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = c.Languages[0]
	}
	if c.Translation.APIKeyEnv == "" {
		c.Translation.APIKeyEnv = "DEEPL_API_KEY"
	}
	if c.Verify.Subject == "" {
		c.Verify.Subject = "sitebuilder.links.broken"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// Validate checks the invariants every build depends on.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: base_url %q must be an absolute URL", c.BaseURL)
	}
	if c.Template == "" {
		return fmt.Errorf("config: template is required")
	}
	for _, lang := range c.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("config: invalid language tag %q: %w", lang, err)
		}
	}
	if !c.HasLanguage(c.DefaultLanguage) {
		return fmt.Errorf("config: default_language %q is not in languages", c.DefaultLanguage)
	}
	for target := range c.Translation.Glossary {
		if !c.HasLanguage(target) {
			return fmt.Errorf("config: glossary target %q is not in languages", target)
		}
	}
	return nil
}

// HasLanguage reports whether tag is a configured site language.
func (c *Config) HasLanguage(tag string) bool {
	for _, lang := range c.Languages {
		if lang == tag {
			return true
		}
	}
	return false
}

// TargetLanguages returns every configured language except the default, in
// configured order. These are the translation targets.
func (c *Config) TargetLanguages() []string {
	out := make([]string, 0, len(c.Languages))
	for _, lang := range c.Languages {
		if lang != c.DefaultLanguage {
			out = append(out, lang)
		}
	}
	return out
}
