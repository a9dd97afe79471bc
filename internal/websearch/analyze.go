package websearch

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tri-bd/bdscan/internal/models"
)

const (
	titleWeight  = 40
	authorWeight = 40
	isbnWeight   = 20
)

var (
	quotedRe = regexp.MustCompile(`"([^"]{5,50})"`)
	creditRe = regexp.MustCompile(`\b(?:par|de)\s+(\p{Lu}\p{Ll}+(?:\s+\p{Lu}\p{Ll}+)*)`)
)

// Analyze scores how well results corroborate c. All results form one lowercase
// corpus; each field either matches or does not.
func Analyze(results []models.SearchResult, c Candidate) models.ValidationAnalysis {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Title)
		b.WriteByte(' ')
		b.WriteString(r.Snippet)
		b.WriteByte(' ')
	}
	corpus := strings.ToLower(b.String())

	author := c.author()
	a := models.ValidationAnalysis{
		TitleMatch:  wordsMatch(corpus, c.Title),
		AuthorMatch: wordsMatch(corpus, author),
		ISBNMatch:   isbnMatch(corpus, c.ISBN),
	}
	if a.TitleMatch {
		a.Confidence += titleWeight
	}
	if a.AuthorMatch {
		a.Confidence += authorWeight
	}
	if a.ISBNMatch {
		a.Confidence += isbnWeight
	}
	a.Suggestions = suggestions(results, strings.TrimSpace(c.Title), author)
	return a
}

// wordsMatch reports whether at least half (and at least one) of the words of
// field longer than two characters occur in corpus.
func wordsMatch(corpus, field string) bool {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(field)) {
		if utf8.RuneCountInString(w) > 2 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return false
	}

	found := 0
	for _, w := range words {
		if strings.Contains(corpus, w) {
			found++
		}
	}
	need := max(1, (len(words)+1)/2)
	return found >= need
}

func isbnMatch(corpus, isbn string) bool {
	isbn = strings.ToLower(strings.TrimSpace(isbn))
	if isbn == "" {
		return false
	}
	stripped := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	return strings.Contains(corpus, stripped) || strings.Contains(corpus, isbn)
}

// suggestions collects alternative titles (quoted strings) and names following
// "par" or "de", in order of appearance.
func suggestions(results []models.SearchResult, title, author string) []string {
	var out []string
	add := func(s, current string) {
		s = strings.TrimSpace(s)
		if s == "" || s == current || slices.Contains(out, s) {
			return
		}
		out = append(out, s)
	}

	for _, r := range results {
		text := r.Title + " " + r.Snippet
		for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
			add(m[1], title)
		}
		for _, m := range creditRe.FindAllStringSubmatch(text, -1) {
			add(m[1], author)
		}
	}
	return out
}
