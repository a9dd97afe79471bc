package websearch

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/tri-bd/bdscan/internal/models"
)

// Google queries a Programmable Search Engine.
type Google struct {
	APIKey   string
	EngineID string
	// Endpoint overrides the API base URL.
	Endpoint string
}

func NewGoogle(apiKey, engineID string) *Google {
	return &Google{APIKey: apiKey, EngineID: engineID}
}

func (g *Google) Name() string {
	return "google"
}

func (g *Google) Search(ctx context.Context, q Query) ([]models.SearchResult, error) {
	if g.APIKey == "" || g.EngineID == "" {
		return nil, ErrNotConfigured
	}

	opts := []option.ClientOption{option.WithAPIKey(g.APIKey)}
	if g.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.Endpoint))
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search client: %w", err)
	}

	resp, err := svc.Cse.List().Cx(g.EngineID).Q(q.Text).Num(5).Safe("active").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search request failed: %w", err)
	}

	results := make([]models.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, models.SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
			Source:  g.Name(),
		})
	}
	return results, nil
}
