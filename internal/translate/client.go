package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Client is the external translation capability: text in, translated text
// out, plus glossary management scoped to a language pair.
type Client interface {
	// Translate translates each text into targetLang. The source language is
	// left for the service to detect unless a glossary is supplied.
	Translate(ctx context.Context, texts []string, targetLang, glossaryID string) ([]string, error)
	// CreateGlossary registers forced term translations and returns the
	// glossary id.
	CreateGlossary(ctx context.Context, name, sourceLang, targetLang string, entries map[string]string) (string, error)
	// ListGlossaries returns the glossaries already registered with the
	// service.
	ListGlossaries(ctx context.Context) ([]GlossaryInfo, error)
}

// GlossaryInfo describes an existing remote glossary.
type GlossaryInfo struct {
	ID         string `json:"glossary_id"`
	Name       string `json:"name"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// DeepLClient implements Client against the DeepL REST API.
type DeepLClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewDeepLClient builds a client for the given API key. Free-tier keys
// (":fx" suffix) are routed to the free API host.
func NewDeepLClient(apiKey string) *DeepLClient {
	base := "https://api.deepl.com"
	if strings.HasSuffix(apiKey, ":fx") {
		base = "https://api-free.deepl.com"
	}
	return &DeepLClient{
		apiKey:     apiKey,
		baseURL:    base,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type deepLTranslateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate implements Client.
func (c *DeepLClient) Translate(ctx context.Context, texts []string, targetLang, glossaryID string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	form := url.Values{}
	for _, text := range texts {
		form.Add("text", text)
	}
	form.Set("target_lang", strings.ToUpper(targetLang))
	if glossaryID != "" {
		form.Set("glossary_id", glossaryID)
	}

	var resp deepLTranslateResponse
	if err := c.post(ctx, "/v2/translate", form, &resp); err != nil {
		return nil, err
	}
	if len(resp.Translations) != len(texts) {
		return nil, fmt.Errorf("deepl: got %d translations for %d texts", len(resp.Translations), len(texts))
	}
	out := make([]string, len(resp.Translations))
	for i, t := range resp.Translations {
		out[i] = t.Text
	}
	return out, nil
}

type deepLGlossaryResponse struct {
	GlossaryInfo
}

// CreateGlossary implements Client using DeepL's TSV entries format.
func (c *DeepLClient) CreateGlossary(ctx context.Context, name, sourceLang, targetLang string, entries map[string]string) (string, error) {
	terms := make([]string, 0, len(entries))
	for term := range entries {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	var tsv strings.Builder
	for _, term := range terms {
		tsv.WriteString(term)
		tsv.WriteByte('\t')
		tsv.WriteString(entries[term])
		tsv.WriteByte('\n')
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("source_lang", strings.ToLower(sourceLang))
	form.Set("target_lang", strings.ToLower(targetLang))
	form.Set("entries", tsv.String())
	form.Set("entries_format", "tsv")

	var resp deepLGlossaryResponse
	if err := c.post(ctx, "/v2/glossaries", form, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

type deepLGlossaryListResponse struct {
	Glossaries []GlossaryInfo `json:"glossaries"`
}

// ListGlossaries implements Client.
func (c *DeepLClient) ListGlossaries(ctx context.Context) ([]GlossaryInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/glossaries", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	var resp deepLGlossaryListResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Glossaries, nil
}

func (c *DeepLClient) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *DeepLClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deepl: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("deepl: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("deepl: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("deepl: decode response: %w", err)
	}
	return nil
}
