package websearch

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tri-bd/bdscan/internal/models"
)

// Site is a comics database probed with a HEAD request.
type Site struct {
	Name string
	// Link builds the probed URL, or returns "" when the site cannot be
	// probed for these terms.
	Link func(title, author string) string
}

// DefaultSites are probed in order. Bedetheque is probed on its series page,
// which only exists for known series.
var DefaultSites = []Site{
	{Name: "bedetheque.com", Link: func(title, _ string) string {
		if title == "" {
			return ""
		}
		return "https://www.bedetheque.com/serie-" + url.PathEscape(title) + ".html"
	}},
	{Name: "comicvine.gamespot.com", Link: func(title, author string) string {
		return "https://comicvine.gamespot.com/search/?header=1&q=" + url.QueryEscape(joinTerms(title, author))
	}},
	{Name: "goodreads.com", Link: func(title, author string) string {
		return "https://www.goodreads.com/search?q=" + url.QueryEscape(joinTerms(title, author, "comic"))
	}},
}

func joinTerms(terms ...string) string {
	return strings.Join(strings.Fields(strings.Join(terms, " ")), " ")
}

// SiteProbe sends a HEAD request to each site and reports a result for every
// site that answers 200. A result names the site and the probed title only: a
// found page says nothing about the author.
type SiteProbe struct {
	Sites      []Site
	HTTPClient *http.Client
}

func NewSiteProbe() *SiteProbe {
	return &SiteProbe{
		Sites:      DefaultSites,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *SiteProbe) Name() string {
	return "sites"
}

func (s *SiteProbe) Search(ctx context.Context, q Query) ([]models.SearchResult, error) {
	if q.Title == "" && q.Author == "" {
		return nil, nil
	}
	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	var results []models.SearchResult
	for _, site := range s.Sites {
		link := site.Link(q.Title, q.Author)
		if link == "" {
			continue
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
		if err != nil {
			slog.Debug("Skipping site probe", "site", site.Name, "err", err)
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			slog.Debug("Site probe failed", "site", site.Name, "err", err)
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			continue
		}
		title := site.Name
		if q.Title != "" {
			title = q.Title + " - " + site.Name
		}
		results = append(results, models.SearchResult{
			Title:   title,
			Snippet: "Page found on " + site.Name,
			Link:    link,
			Source:  site.Name,
		})
	}
	return results, nil
}
