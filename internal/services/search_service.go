package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// SearchResult is one snippet returned by the web search API.
type SearchResult struct {
	Title   string
	Snippet string
	Link    string
}

// SearchProvider is the side-call contract used for prompt enrichment.
type SearchProvider interface {
	Search(ctx context.Context, query string, numResults int64) ([]SearchResult, error)
}

// GoogleSearchService retrieves snippets from the Google Custom Search API.
// Pure pass-through: no ranking or relevance logic beyond what the API does.
type GoogleSearchService struct {
	svc      *customsearch.Service
	engineID string
}

// NewGoogleSearchService creates the search side-call client. Extra options
// (custom endpoint, HTTP client) are accepted for tests.
func NewGoogleSearchService(apiKey, engineID string, opts ...option.ClientOption) (*GoogleSearchService, error) {
	if apiKey == "" || engineID == "" {
		return nil, fmt.Errorf("google search API key and engine ID are required")
	}
	svc, err := customsearch.NewService(context.Background(), append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}
	log.Info("Google Custom Search service initialized")
	return &GoogleSearchService{svc: svc, engineID: engineID}, nil
}

// Search returns up to numResults snippets for query. An empty query yields
// no results without calling the API. The API caps num at 10.
func (s *GoogleSearchService) Search(ctx context.Context, query string, numResults int64) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		log.Warn("Empty search query provided, skipping search")
		return nil, nil
	}
	if numResults <= 0 {
		numResults = 3
	}
	if numResults > 10 {
		numResults = 10
	}

	resp, err := s.svc.Cse.List().Cx(s.engineID).Q(query).Num(numResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}
	log.Debugf("Google search returned %d results for query %q", len(results), query)
	return results, nil
}

// FormatSnippets renders search results as "- title: snippet" lines for
// injection into the with-search prompt template.
func FormatSnippets(results []SearchResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.Snippet))
	}
	return strings.Join(lines, "\n")
}

var _ SearchProvider = (*GoogleSearchService)(nil)
