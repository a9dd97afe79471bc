// Package filename guesses title and author from a document's file name.
//
// The rules are heuristics tuned for comic-book collections named by hand. They are
// applied in a fixed order and the first matching rule wins. Each rule is exported
// through Rules so it can be exercised on its own.
package filename

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tri-bd/bdscan/internal/models"
	"golang.org/x/text/unicode/norm"
)

// Source tags results produced by this package.
const Source = "filename"

// Rule is one filename pattern. Author and Title are capture-group indexes.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Author  int
	Title   int
}

// Rules lists the patterns in precedence order.
//
// "title par author" assigns group 1 to the author and group 2 to the title, so
// "Asterix par Uderzo" yields author "Asterix". That ordering is kept as observed
// in existing inventories until the intended reading is confirmed.
var Rules = []Rule{
	{Name: "author-title", Pattern: regexp.MustCompile(`^(.+?)\s*[-–]\s*(.+)$`), Author: 1, Title: 2},
	{Name: "title-par-author", Pattern: regexp.MustCompile(`^(.+?)\s+par\s+(.+)$`), Author: 1, Title: 2},
	{Name: "title-paren-author", Pattern: regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)$`), Author: 1, Title: 2},
	{Name: "author-title-tome", Pattern: regexp.MustCompile(`(?i)^(.+?)\s*[-–]\s*(.+?)\s*[-–]\s*tome\s*\d+`), Author: 1, Title: 2},
}

var (
	spacedDash = regexp.MustCompile(`\s+[-–]\s+`)
	spaces     = regexp.MustCompile(`\s+`)
)

// separator survives Clean so that "Author - Title" stays splittable.
const separator = " - "

// Clean normalises a file name: the extension is dropped, the name is NFC-normalised,
// underscores and bare hyphens become spaces and whitespace is collapsed.
// A hyphen or en dash surrounded by whitespace is kept as the " - " separator.
func Clean(name string) string {
	if ext := filepath.Ext(name); len(ext) > 1 && len(ext) <= 5 && !strings.ContainsAny(ext, " ") {
		name = strings.TrimSuffix(name, ext)
	}
	name = norm.NFC.String(name)

	parts := spacedDash.Split(name, -1)
	for i, p := range parts {
		p = strings.NewReplacer("_", " ", "-", " ").Replace(p)
		parts[i] = strings.TrimSpace(spaces.ReplaceAllString(p, " "))
	}

	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, separator)
}

// Parse returns the title and author guessed from name. When no rule matches the
// author is models.UnknownAuthor and the title is the whole cleaned name.
func Parse(name string) models.ExtractionResult {
	clean := Clean(name)
	for _, rule := range Rules {
		if author, title, ok := rule.Match(clean); ok {
			return models.ExtractionResult{Author: author, Title: title, Source: Source + ":" + rule.Name}
		}
	}
	return models.ExtractionResult{Author: models.UnknownAuthor, Title: clean, Source: Source}
}

// Match applies the rule to an already cleaned name.
func (r Rule) Match(clean string) (author, title string, ok bool) {
	m := r.Pattern.FindStringSubmatch(clean)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[r.Author]), strings.TrimSpace(m[r.Title]), true
}
