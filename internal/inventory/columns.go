package inventory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tri-bd/bdscan/internal/models"
)

// TimestampLayout is the ISO-8601 form of the analysis timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Header is the column order written on save.
var Header = []string{
	"filename",
	"title",
	"author",
	"series",
	"volume",
	"isbn",
	"confidence",
	"page_analyzed",
	"analysis_timestamp",
}

// aliases are the column names of older French inventories.
var aliases = map[string]string{
	"nom du fichier": "filename",
	"fichier":        "filename",
	"titre":          "title",
	"auteur":         "author",
	"série":          "series",
	"serie":          "series",
	"numéro":         "volume",
	"numero":         "volume",
	"tome":           "volume",
	"confiance":      "confidence",
	"page":           "page_analyzed",
	"page analysée":  "page_analyzed",
	"date d'analyse": "analysis_timestamp",
}

// columns maps a canonical column name to its index in the file.
type columns map[string]int

func mapHeader(header []string) (columns, bool, error) {
	cols := columns{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		if slices.Contains(Header, name) {
			if _, dup := cols[name]; !dup {
				cols[name] = i
			}
		}
	}
	if _, ok := cols["filename"]; !ok {
		return nil, false, fmt.Errorf("no filename column in header %q", header)
	}
	return cols, slices.Equal(header, Header), nil
}

func (c columns) get(fields []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return clean(fields[i])
}

func (c columns) record(fields []string) models.DocumentRecord {
	return models.DocumentRecord{
		Filename:     c.get(fields, "filename"),
		Title:        c.get(fields, "title"),
		Author:       c.get(fields, "author"),
		Series:       c.get(fields, "series"),
		Volume:       c.get(fields, "volume"),
		ISBN:         c.get(fields, "isbn"),
		Confidence:   models.ParseConfidence(c.get(fields, "confidence")),
		PageAnalyzed: models.ParsePage(c.get(fields, "page_analyzed")),
		AnalyzedAt:   parseTimestamp(c.get(fields, "analysis_timestamp")),
	}
}

// fields returns r in Header order.
func fields(r models.DocumentRecord) []string {
	return []string{
		r.Filename,
		r.Title,
		r.Author,
		r.Series,
		r.Volume,
		r.ISBN,
		r.Confidence.String(),
		r.PageAnalyzed.String(),
		FormatTimestamp(r.AnalyzedAt),
	}
}

// FormatTimestamp renders t in UTC, or "" for the zero time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
