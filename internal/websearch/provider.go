// Package websearch corroborates extracted fields against web search results.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tri-bd/bdscan/internal/metrics"
	"github.com/tri-bd/bdscan/internal/models"
)

// ErrUnavailable means no validation could be performed: there was nothing to
// search for, or every provider failed or came back empty. It is distinct from a
// validation that ran and did not match.
var ErrUnavailable = errors.New("web validation unavailable")

// ErrNotConfigured is returned by a provider that lacks credentials.
var ErrNotConfigured = errors.New("search provider not configured")

// genre narrows every query to comics.
const genre = "bande dessinée"

// Query is one search, with the fields it was built from.
type Query struct {
	Text   string
	Title  string
	Author string
	ISBN   string
}

// Candidate holds the fields to corroborate.
type Candidate struct {
	Title  string
	Author string
	ISBN   string
}

func (c Candidate) author() string {
	if c.Author == models.UnknownAuthor {
		return ""
	}
	return strings.TrimSpace(c.Author)
}

// BuildQuery builds the search for c: title and author when both are known,
// else title, else author, else ISBN.
func BuildQuery(c Candidate) (Query, error) {
	title, author, isbn := strings.TrimSpace(c.Title), c.author(), strings.TrimSpace(c.ISBN)
	q := Query{Title: title, Author: author, ISBN: isbn}

	switch {
	case title != "" && author != "":
		q.Text = fmt.Sprintf("%q %q %s", title, author, genre)
	case title != "":
		q.Text = fmt.Sprintf("%q %s", title, genre)
	case author != "":
		q.Text = fmt.Sprintf("%q %s", author, genre)
	case isbn != "":
		q.Text = fmt.Sprintf("ISBN %s %s", isbn, genre)
	default:
		return Query{}, fmt.Errorf("%w: no title, author or isbn to search", ErrUnavailable)
	}
	return q, nil
}

// Provider is one search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.SearchResult, error)
}

// Outcome is the first non-empty answer of a Chain.
type Outcome struct {
	Query   string
	Source  string
	Results []models.SearchResult
}

// Chain tries providers in order and returns the first non-empty result set.
type Chain []Provider

// Search never stops on a provider failure; it returns ErrUnavailable only after
// every provider failed or returned nothing.
func (c Chain) Search(ctx context.Context, q Query) (Outcome, error) {
	for _, p := range c {
		results, err := p.Search(ctx, q)
		switch {
		case errors.Is(err, ErrNotConfigured):
			slog.Debug("Search provider skipped", "provider", p.Name(), "reason", err)
			continue
		case err != nil:
			metrics.SearchRequestsTotal.WithLabelValues(p.Name(), "error").Inc()
			slog.Warn("Search provider failed", "provider", p.Name(), "err", err)
			continue
		case len(results) == 0:
			metrics.SearchRequestsTotal.WithLabelValues(p.Name(), "empty").Inc()
			slog.Debug("Search provider returned no results", "provider", p.Name())
			continue
		}

		metrics.SearchRequestsTotal.WithLabelValues(p.Name(), "hit").Inc()
		slog.Info("Search results found", "provider", p.Name(), "count", len(results))
		return Outcome{Query: q.Text, Source: p.Name(), Results: results}, nil
	}
	return Outcome{}, fmt.Errorf("%w: no search provider returned results", ErrUnavailable)
}
