package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tmc/langchaingo/tools/duckduckgo"
)

const snippetLimit = 8000

// KnowledgeTool is the real fetch_knowledge integration: web search for open
// queries, readability extraction when pointed at a specific page.
type KnowledgeTool struct {
	search    *duckduckgo.Tool
	client    *http.Client
	sanitizer *bluemonday.Policy
	userAgent string
}

func NewKnowledgeTool() (*KnowledgeTool, error) {
	ddg, err := duckduckgo.New(5, duckduckgo.DefaultUserAgent)
	if err != nil {
		return nil, err
	}
	return &KnowledgeTool{
		search:    ddg,
		client:    &http.Client{Timeout: 30 * time.Second},
		sanitizer: bluemonday.StrictPolicy(),
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}, nil
}

func (k *KnowledgeTool) Name() string {
	return NameFetchKnowledge
}

func (k *KnowledgeTool) Description() string {
	return "Fetch knowledge base snippets: search the web or extract a page's main content."
}

func (k *KnowledgeTool) Execute(ctx context.Context, inputs map[string]any) (*Result, error) {
	if pageURL := stringInput(inputs, "url"); pageURL != "" {
		return k.fetchPage(ctx, pageURL)
	}

	query := stringInput(inputs, "query", "text")
	if query == "" {
		return nil, fmt.Errorf("fetch_knowledge requires a query or url input")
	}

	res, err := k.search.Call(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("knowledge search failed: %w", err)
	}

	return &Result{
		Source:  "DuckDuckGo: " + query,
		Payload: map[string]any{"results": res},
	}, nil
}

func (k *KnowledgeTool) fetchPage(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", k.userAgent)

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse article: %w", err)
	}

	snippet := k.sanitizer.Sanitize(article.TextContent)
	if len(snippet) > snippetLimit {
		snippet = snippet[:snippetLimit] + "\n... (content truncated) ..."
	}

	return &Result{
		Source: "Page: " + pageURL,
		Payload: map[string]any{
			"title":   article.Title,
			"snippet": snippet,
		},
	}, nil
}
