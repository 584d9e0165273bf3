// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package tools provides the side-effecting capabilities roles attach:
// web search for the explorer and document writing for every stage that
// shapes the shared artifact.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zainaedelson/quartet/pkg/core"
	"github.com/zainaedelson/quartet/pkg/llm"
)

// SearchToolName is how briefs and the inference backend refer to web search.
const SearchToolName = "web_search"

var _ core.Tool = (*SearchTool)(nil)

const defaultSearchBaseURL = "https://google.serper.dev"

// SearchTool queries the Serper web search API. It is only constructed
// when a search credential is present; without it the explorer role runs
// with no capability and its stage degrades.
type SearchTool struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// SearchOption configures a SearchTool.
type SearchOption func(*SearchTool)

// WithSearchBaseURL overrides the search API endpoint.
func WithSearchBaseURL(baseURL string) SearchOption {
	return func(t *SearchTool) {
		t.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithMaxResults bounds how many organic results are formatted.
func WithMaxResults(n int) SearchOption {
	return func(t *SearchTool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// WithSearchHTTPClient overrides the HTTP client.
func WithSearchHTTPClient(client *http.Client) SearchOption {
	return func(t *SearchTool) {
		t.httpClient = client
	}
}

// NewSearchTool creates a web search tool with the given credential.
func NewSearchTool(apiKey string, opts ...SearchOption) *SearchTool {
	t := &SearchTool{
		apiKey:     apiKey,
		baseURL:    defaultSearchBaseURL,
		maxResults: 5,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements core.Tool.
func (t *SearchTool) Name() string {
	return SearchToolName
}

// Definition describes the tool to the inference backend.
func (t *SearchTool) Definition() llm.Tool {
	return llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.FunctionDef{
			Name:        SearchToolName,
			Description: "Search the web and return the top results with titles, links, and snippets.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The search query.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num,omitempty"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Call implements core.Tool. Input is either the query string itself or a
// map carrying a "query" key. Results come back as Markdown bullets so the
// explorer can lift them into its notes with links inline.
func (t *SearchTool) Call(ctx context.Context, input any) (any, error) {
	query := extractQuery(input)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	body, err := json.Marshal(searchRequest{Query: query, Num: t.maxResults})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("search API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return formatResults(query, parsed.Organic, t.maxResults), nil
}

func extractQuery(input any) string {
	switch v := input.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		for _, key := range []string{"query", "q"} {
			if raw, ok := v[key]; ok {
				if s, ok := raw.(string); ok {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

func formatResults(query string, results []organicResult, limit int) string {
	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q.", query)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n", query)
	for _, r := range results {
		fmt.Fprintf(&b, "- %s (%s): %s\n", r.Title, r.Link, r.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}
