package websearch

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tri-bd/bdscan/internal/models"
)

const serpAPIURL = "https://serpapi.com/search"

// SerpAPI queries Google through serpapi.com. Without a key it uses the public
// demo key, which is heavily rate limited.
type SerpAPI struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
}

func NewSerpAPI(apiKey string) *SerpAPI {
	if apiKey == "" {
		apiKey = "demo"
	}
	return &SerpAPI{
		APIKey:     apiKey,
		URL:        serpAPIURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *SerpAPI) Name() string {
	return "serpapi"
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

func (s *SerpAPI) Search(ctx context.Context, q Query) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("engine", "google")
	params.Set("api_key", s.APIKey)
	params.Set("num", "5")

	var resp serpAPIResponse
	if err := getJSON(ctx, s.HTTPClient, s.URL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		results = append(results, models.SearchResult{
			Title:   r.Title,
			Snippet: r.Snippet,
			Link:    r.Link,
			Source:  s.Name(),
		})
	}
	return results, nil
}
