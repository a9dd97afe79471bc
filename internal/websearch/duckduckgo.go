package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tri-bd/bdscan/internal/models"
)

const (
	duckDuckGoURL  = "https://api.duckduckgo.com/"
	// untitledResult stands in for an abstract without a heading.
	untitledResult = "Résultat DuckDuckGo"
)

// DuckDuckGo uses the keyless Instant Answer API.
type DuckDuckGo struct {
	URL        string
	HTTPClient *http.Client
}

func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		URL:        duckDuckGoURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

type duckDuckGoTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

type duckDuckGoResponse struct {
	Heading       string            `json:"Heading"`
	Abstract      string            `json:"Abstract"`
	AbstractURL   string            `json:"AbstractURL"`
	RelatedTopics []duckDuckGoTopic `json:"RelatedTopics"`
}

func (d *DuckDuckGo) Search(ctx context.Context, q Query) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	var resp duckDuckGoResponse
	if err := getJSON(ctx, d.HTTPClient, d.URL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	var results []models.SearchResult
	if resp.Abstract != "" {
		title := resp.Heading
		if title == "" {
			title = untitledResult
		}
		results = append(results, models.SearchResult{
			Title:   title,
			Snippet: resp.Abstract,
			Link:    resp.AbstractURL,
			Source:  d.Name(),
		})
	}

	related := 0
	for _, topic := range resp.RelatedTopics {
		if related == 3 {
			break
		}
		// grouped topics carry no Text
		if topic.Text == "" {
			continue
		}
		title, _, _ := strings.Cut(topic.Text, " - ")
		results = append(results, models.SearchResult{
			Title:   title,
			Snippet: topic.Text,
			Link:    topic.FirstURL,
			Source:  d.Name(),
		})
		related++
	}
	return results, nil
}

// getJSON issues a GET and decodes a 200 response body into v.
func getJSON(ctx context.Context, client *http.Client, endpoint string, v any) error {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
