package vision

import (
	"log/slog"
	"math"
	"strings"

	"github.com/tri-bd/bdscan/internal/models"
)

const (
	// Source tags results produced from a structured reply.
	Source = "vision"
	// SourceScraped tags results recovered by the token scrape.
	SourceScraped = "vision:scraped"

	defaultConfidence = 50
)

// authorRoles are role fragments that count as authorship. Colorists, translators
// and letterers are left out.
var authorRoles = []string{"scénar", "scenar", "dessin", "draw", "auteur", "author", "writer", "artist", "illustr"}

// Parse turns a free-form model reply into an extraction result. The first
// balanced JSON block is decoded against the response schema; when that fails
// the bare title and author tokens are scraped with the default confidence.
func Parse(reply string) models.ExtractionResult {
	if block, ok := FirstObject(reply); ok {
		resp, err := decodeResponse(block)
		if err == nil {
			return resp.Result()
		}
		slog.Warn("Vision reply JSON rejected, scraping tokens", "err", err)
	} else {
		slog.Warn("Vision reply holds no JSON block, scraping tokens")
	}

	title, author := scrape(reply)
	return models.ExtractionResult{
		Title:      title,
		Author:     author,
		Confidence: models.NewConfidence(defaultConfidence),
		Source:     SourceScraped,
	}
}

// Result applies the field resolution rules to a decoded reply.
func (r Response) Result() models.ExtractionResult {
	res := models.ExtractionResult{
		Title:      r.composeTitle(),
		Author:     r.composeAuthor(),
		Series:     r.Title.Series.String(),
		Volume:     r.Title.Volume.String(),
		ISBN:       r.Metadata.ISBN.String(),
		Confidence: models.NewConfidence(r.confidence()),
		Source:     Source,
	}
	return SeriesAsAuthor(res)
}

// confidence picks the top-level score, then overall, then the rounded mean of the
// title and authors scores, then the default.
func (r Response) confidence() int {
	c := r.Confidence
	switch {
	case c.TopLevel != nil:
		return int(math.Round(*c.TopLevel))
	case c.Overall != nil:
		return int(math.Round(*c.Overall))
	case c.Title != nil && c.Authors != nil:
		return int(math.Round((*c.Title + *c.Authors) / 2))
	case c.Title != nil:
		return int(math.Round(*c.Title))
	case c.Authors != nil:
		return int(math.Round(*c.Authors))
	default:
		return defaultConfidence
	}
}

func (r Response) composeTitle() string {
	t := r.Title
	if t.Main == "" {
		if t.Subtitle != "" {
			return t.Subtitle.String()
		}
		return t.Series.String()
	}

	title := t.Main.String()
	if t.Subtitle != "" {
		title += " - " + t.Subtitle.String()
	}
	if t.Volume != "" {
		title += " (Tome " + t.Volume.String() + ")"
	}
	return title
}

func (r Response) composeAuthor() string {
	var names []string
	for _, c := range r.Creators.Authors {
		if c.Name == "" || !isAuthorRole(c.Role.String()) {
			continue
		}
		names = append(names, c.Name.String())
	}
	if len(names) == 0 {
		return r.Author.String()
	}
	return strings.Join(names, ", ")
}

func isAuthorRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return true
	}
	for _, r := range authorRoles {
		if strings.Contains(role, r) {
			return true
		}
	}
	return false
}

// SeriesAsAuthor moves the series into the author field when no author was found.
// Models regularly put the author's name in the series slot of a cover.
func SeriesAsAuthor(res models.ExtractionResult) models.ExtractionResult {
	if res.Series != "" && res.Author == "" {
		res.Author = res.Series
		res.Series = ""
	}
	return res
}
