package filename

import (
	"testing"

	"github.com/tri-bd/bdscan/internal/models"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "underscores and extension", input: "Blake_et_Mortimer_03.pdf", expected: "Blake et Mortimer 03"},
		{name: "bare hyphens", input: "Lucky-Luke-tome-2.PDF", expected: "Lucky Luke tome 2"},
		{name: "spaced separator kept", input: "Goscinny  -  Asterix le Gaulois.pdf", expected: "Goscinny - Asterix le Gaulois"},
		{name: "en dash separator", input: "Hergé – Tintin.pdf", expected: "Hergé - Tintin"},
		{name: "collapses whitespace", input: "  Les   Schtroumpfs  ", expected: "Les Schtroumpfs"},
		{name: "decomposed accents composed", input: "Herge\u0301.pdf", expected: "Herg\u00e9"},
		{name: "no extension", input: "Asterix par Uderzo", expected: "Asterix par Uderzo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		author string
		title  string
	}{
		{name: "author dash title", input: "Goscinny - Asterix", author: "Goscinny", title: "Asterix"},
		{name: "author dash title with extension", input: "Goscinny - Asterix.pdf", author: "Goscinny", title: "Asterix"},
		// Literal group order of the "par" rule: group 1 is read as the author.
		{name: "title par author literal groups", input: "Asterix par Uderzo", author: "Asterix", title: "Uderzo"},
		{name: "parenthesised", input: "Gaston (Franquin).pdf", author: "Gaston", title: "Franquin"},
		// The first rule already matches, so the tome suffix stays in the title.
		{name: "tome suffix shadowed by first rule", input: "Morris - Lucky Luke - tome 3.pdf", author: "Morris", title: "Lucky Luke - tome 3"},
		{name: "no rule matches", input: "Les_Schtroumpfs_01.pdf", author: models.UnknownAuthor, title: "Les Schtroumpfs 01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Author != tt.author || got.Title != tt.title {
				t.Errorf("Parse(%q) = {author:%q title:%q}, want {author:%q title:%q}",
					tt.input, got.Author, got.Title, tt.author, tt.title)
			}
		})
	}
}

func TestRulesIndependently(t *testing.T) {
	tests := []struct {
		rule   string
		input  string
		match  bool
		author string
		title  string
	}{
		{rule: "author-title", input: "Franquin - Gaston", match: true, author: "Franquin", title: "Gaston"},
		{rule: "author-title", input: "Gaston Lagaffe", match: false},
		{rule: "title-par-author", input: "Spirou par Franquin", match: true, author: "Spirou", title: "Franquin"},
		{rule: "title-par-author", input: "Spirou Franquin", match: false},
		{rule: "title-paren-author", input: "Spirou (Franquin)", match: true, author: "Spirou", title: "Franquin"},
		{rule: "author-title-tome", input: "Morris - Lucky Luke - TOME 12", match: true, author: "Morris", title: "Lucky Luke"},
		{rule: "author-title-tome", input: "Morris - Lucky Luke", match: false},
	}

	byName := map[string]Rule{}
	for _, r := range Rules {
		byName[r.Name] = r
	}

	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.input, func(t *testing.T) {
			rule, ok := byName[tt.rule]
			if !ok {
				t.Fatalf("rule %q not registered", tt.rule)
			}
			author, title, matched := rule.Match(tt.input)
			if matched != tt.match {
				t.Fatalf("Match(%q) matched = %v, want %v", tt.input, matched, tt.match)
			}
			if matched && (author != tt.author || title != tt.title) {
				t.Errorf("Match(%q) = (%q, %q), want (%q, %q)", tt.input, author, title, tt.author, tt.title)
			}
		})
	}
}
