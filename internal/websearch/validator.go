package websearch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tri-bd/bdscan/internal/metrics"
	"github.com/tri-bd/bdscan/internal/models"
)

// Validator builds the query, runs the provider chain and scores the results.
type Validator struct {
	Chain Chain
}

// Options configures the default provider chain.
type Options struct {
	GoogleAPIKey string
	GoogleCSEID  string
	SerpAPIKey   string
}

// NewValidator returns a validator over the default chain: Google, DuckDuckGo,
// SerpAPI, then site probes.
func NewValidator(opts Options) *Validator {
	return &Validator{Chain: Chain{
		NewGoogle(opts.GoogleAPIKey, opts.GoogleCSEID),
		NewDuckDuckGo(),
		NewSerpAPI(opts.SerpAPIKey),
		NewSiteProbe(),
	}}
}

// Validate returns ErrUnavailable when nothing could be searched or no provider
// answered.
func (v *Validator) Validate(ctx context.Context, c Candidate) (models.ValidationAnalysis, error) {
	q, err := BuildQuery(c)
	if err != nil {
		return models.ValidationAnalysis{}, err
	}

	slog.Debug("Searching the web", "query", q.Text)
	out, err := v.Chain.Search(ctx, q)
	if err != nil {
		return models.ValidationAnalysis{}, err
	}

	a := Analyze(out.Results, c)
	a.Source = out.Source
	a.Query = out.Query
	metrics.ValidationConfidence.Observe(float64(a.Confidence))
	return a, nil
}

// Matches lists the fields that matched, for display.
func Matches(a models.ValidationAnalysis) []string {
	var m []string
	if a.TitleMatch {
		m = append(m, "title")
	}
	if a.AuthorMatch {
		m = append(m, "author")
	}
	if a.ISBNMatch {
		m = append(m, "isbn")
	}
	return m
}

// Band classifies a validation confidence as high, medium or low.
func Band(confidence int) string {
	switch {
	case confidence >= 60:
		return "high"
	case confidence >= 30:
		return "medium"
	default:
		return "low"
	}
}

// Log reports a validation result, with at most three suggestions.
func Log(file string, a models.ValidationAnalysis) {
	matches := "none"
	if m := Matches(a); len(m) > 0 {
		matches = strings.Join(m, ", ")
	}
	suggestions := a.Suggestions
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	slog.Info("Web validation",
		"file", file,
		"source", a.Source,
		"matches", matches,
		"confidence", a.Confidence,
		"band", Band(a.Confidence),
		"suggestions", suggestions)
}
