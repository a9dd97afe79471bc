package websearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/tri-bd/bdscan/internal/models"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name    string
		c       Candidate
		want    string
		wantErr bool
	}{
		{name: "title and author", c: Candidate{Title: "Astérix", Author: "Goscinny"}, want: `"Astérix" "Goscinny" bande dessinée`},
		{name: "title only", c: Candidate{Title: "Astérix", Author: models.UnknownAuthor}, want: `"Astérix" bande dessinée`},
		{name: "author only", c: Candidate{Author: "Goscinny"}, want: `"Goscinny" bande dessinée`},
		{name: "isbn only", c: Candidate{ISBN: "2012101339"}, want: "ISBN 2012101339 bande dessinée"},
		{name: "nothing", c: Candidate{Author: models.UnknownAuthor}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := BuildQuery(tt.c)
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Errorf("BuildQuery() error = %v, want ErrUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildQuery() error = %v", err)
			}
			if q.Text != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", q.Text, tt.want)
			}
		})
	}
}

func TestAnalyzeScoring(t *testing.T) {
	results := []models.SearchResult{
		{Title: "Astérix le Gaulois - Bedetheque", Snippet: "Album de René Goscinny et Albert Uderzo, 1961."},
		{Title: "Astérix", Snippet: `Le premier album "La Serpe d'or" est publié par Dargaud Editions`},
	}

	a := Analyze(results, Candidate{Title: "Astérix le Gaulois", Author: "René Goscinny"})
	if !a.TitleMatch || !a.AuthorMatch || a.ISBNMatch || a.Confidence != 80 {
		t.Errorf("Analyze() = %+v, want title+author match at 80", a)
	}
	if !slices.Contains(a.Suggestions, "La Serpe d'or") {
		t.Errorf("suggestions = %v, want quoted title", a.Suggestions)
	}
	if !slices.Contains(a.Suggestions, "Dargaud Editions") {
		t.Errorf("suggestions = %v, want name after par", a.Suggestions)
	}
	if slices.Contains(a.Suggestions, "René Goscinny") {
		t.Errorf("suggestions = %v, candidate author should be excluded", a.Suggestions)
	}
}

func TestAnalyzeWordThreshold(t *testing.T) {
	results := []models.SearchResult{{Title: "Les aventures de Blake", Snippet: "tome 3"}}

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{name: "half of words", title: "Blake et Mortimer", want: true}, // "et" is ignored: 1 of 2
		{name: "under half", title: "Blake Mortimer Jacobs", want: false},
		{name: "only short words", title: "Le Ba", want: false},
		{name: "empty", title: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(results, Candidate{Title: tt.title}).TitleMatch; got != tt.want {
				t.Errorf("TitleMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeISBN(t *testing.T) {
	results := []models.SearchResult{{Title: "Gaston", Snippet: "ISBN 9782800101345"}}

	a := Analyze(results, Candidate{ISBN: "978-2-8001-0134-5"})
	if !a.ISBNMatch || a.Confidence != 20 {
		t.Errorf("Analyze() = %+v, want isbn match at 20", a)
	}
	if Analyze(results, Candidate{ISBN: "978-0-00-000000-0"}).ISBNMatch {
		t.Error("unrelated isbn matched")
	}
}

func TestAnalyzeUnknownAuthorNeverMatches(t *testing.T) {
	results := []models.SearchResult{{Title: "Unknown author", Snippet: "unknown"}}
	if Analyze(results, Candidate{Author: models.UnknownAuthor}).AuthorMatch {
		t.Error("placeholder author matched")
	}
}

type stubProvider struct {
	name    string
	results []models.SearchResult
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(context.Context, Query) ([]models.SearchResult, error) {
	s.calls++
	return s.results, s.err
}

func TestChainFirstNonEmptyWins(t *testing.T) {
	failing := &stubProvider{name: "a", err: errors.New("boom")}
	unconfigured := &stubProvider{name: "b", err: ErrNotConfigured}
	empty := &stubProvider{name: "c"}
	hit := &stubProvider{name: "d", results: []models.SearchResult{{Title: "x"}}}
	never := &stubProvider{name: "e", results: []models.SearchResult{{Title: "y"}}}

	out, err := Chain{failing, unconfigured, empty, hit, never}.Search(context.Background(), Query{Text: "q"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out.Source != "d" || out.Query != "q" || len(out.Results) != 1 {
		t.Errorf("Search() = %+v", out)
	}
	if never.calls != 0 {
		t.Error("chain continued after a hit")
	}
}

func TestChainExhausted(t *testing.T) {
	_, err := Chain{&stubProvider{name: "a", err: errors.New("boom")}, &stubProvider{name: "b"}}.Search(context.Background(), Query{Text: "q"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Search() error = %v, want ErrUnavailable", err)
	}
}

func TestValidator(t *testing.T) {
	p := &stubProvider{name: "stub", results: []models.SearchResult{{Title: "Maus", Snippet: "Art Spiegelman"}}}
	v := &Validator{Chain: Chain{p}}

	a, err := v.Validate(context.Background(), Candidate{Title: "Maus", Author: "Art Spiegelman"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if a.Confidence != 80 || a.Source != "stub" || a.Query != `"Maus" "Art Spiegelman" bande dessinée` {
		t.Errorf("Validate() = %+v", a)
	}

	if _, err := v.Validate(context.Background(), Candidate{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Validate(empty) error = %v, want ErrUnavailable", err)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
}

func TestGoogle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("cx") != "engine" || q.Get("key") != "secret" || q.Get("num") != "5" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"title":"Maus - Wikipedia","snippet":"graphic novel","link":"https://example.org/maus"}]}`))
	}))
	defer srv.Close()

	g := NewGoogle("secret", "engine")
	g.Endpoint = srv.URL + "/"
	results, err := g.Search(context.Background(), Query{Text: "Maus"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := models.SearchResult{Title: "Maus - Wikipedia", Snippet: "graphic novel", Link: "https://example.org/maus", Source: "google"}
	if len(results) != 1 || results[0] != want {
		t.Errorf("Search() = %+v", results)
	}

	if _, err := NewGoogle("", "").Search(context.Background(), Query{Text: "Maus"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("unconfigured error = %v", err)
	}
}

func TestDuckDuckGo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("unexpected query %v", r.URL.Query())
		}
		w.Write([]byte(`{
			"Heading": "Gaston Lagaffe",
			"Abstract": "Gaston is a comic strip by Franquin.",
			"AbstractURL": "https://example.org/gaston",
			"RelatedTopics": [
				{"Text": "Franquin - Belgian cartoonist", "FirstURL": "https://example.org/1"},
				{"Name": "group", "Topics": []},
				{"Text": "Spirou - magazine", "FirstURL": "https://example.org/2"},
				{"Text": "Dupuis - publisher", "FirstURL": "https://example.org/3"},
				{"Text": "Marsupilami - character", "FirstURL": "https://example.org/4"}
			]
		}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo()
	d.URL = srv.URL
	results, err := d.Search(context.Background(), Query{Text: "Gaston"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want abstract + 3 topics", len(results))
	}
	if results[0].Title != "Gaston Lagaffe" || results[1].Title != "Franquin" || results[3].Title != "Dupuis" {
		t.Errorf("Search() = %+v", results)
	}
}

func TestCreditSuggestionsKeepAccents(t *testing.T) {
	results := []models.SearchResult{
		{Title: "Tintin", Snippet: "Une aventure dessinée par Hergé, garde Martin au studio"},
	}
	a := Analyze(results, Candidate{Title: "Tintin au Tibet"})
	if !slices.Contains(a.Suggestions, "Hergé") {
		t.Errorf("suggestions = %v, want the full accented name", a.Suggestions)
	}
	if slices.Contains(a.Suggestions, "Martin") {
		t.Errorf("suggestions = %v, credit matched inside a word", a.Suggestions)
	}
}

func TestDuckDuckGoAbstractWithoutHeading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Heading": "", "Abstract": "Une série de bande dessinée."}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo()
	d.URL = srv.URL
	results, err := d.Search(context.Background(), Query{Text: `"Invented" bande dessinée`, Title: "Invented"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Title != untitledResult {
		t.Errorf("Search() = %+v", results)
	}
}

func TestSerpAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "demo" {
			t.Errorf("api_key = %q", r.URL.Query().Get("api_key"))
		}
		w.Write([]byte(`{"organic_results":[{"title":"Blacksad","snippet":"Canales","link":"https://example.org/b"}]}`))
	}))
	defer srv.Close()

	s := NewSerpAPI("")
	s.URL = srv.URL
	results, err := s.Search(context.Background(), Query{Text: "Blacksad"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Source != "serpapi" || results[0].Snippet != "Canales" {
		t.Errorf("Search() = %+v", results)
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer failing.Close()
	s.URL = failing.URL
	if _, err := s.Search(context.Background(), Query{Text: "Blacksad"}); err == nil {
		t.Error("expected error on 429")
	}
}

func TestSiteProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if strings.HasPrefix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := &SiteProbe{Sites: []Site{
		{Name: "found.example", Link: func(title, author string) string { return srv.URL + "/search?q=" + title }},
		{Name: "missing.example", Link: func(title, author string) string { return srv.URL + "/missing" }},
		{Name: "skipped.example", Link: func(title, author string) string { return "" }},
	}}
	results, err := p.Search(context.Background(), Query{Title: "Thorgal", Author: "Rosinski"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Source != "found.example" || results[0].Title != "Thorgal - found.example" {
		t.Errorf("Search() = %+v", results)
	}

	if results, _ := p.Search(context.Background(), Query{ISBN: "123"}); len(results) != 0 {
		t.Errorf("probe without title or author returned %+v", results)
	}
}

func TestSiteProbeAloneCannotRaiseConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	probe := &SiteProbe{Sites: []Site{
		{Name: "any.example", Link: func(title, author string) string { return srv.URL + "/album" }},
	}}
	v := &Validator{Chain: Chain{probe}}
	a, err := v.Validate(context.Background(), Candidate{Title: "Totally Made Up", Author: "Nobody Real"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if a.AuthorMatch {
		t.Error("author matched on a page found by its own query")
	}
	if a.Confidence > 60 {
		t.Errorf("confidence = %d, want at most 60", a.Confidence)
	}
}

func TestDefaultSiteLinks(t *testing.T) {
	links := map[string]string{}
	for _, site := range DefaultSites {
		links[site.Name] = site.Link("Les Schtroumpfs", "Peyo")
	}
	want := map[string]string{
		"bedetheque.com":         "https://www.bedetheque.com/serie-Les%20Schtroumpfs.html",
		"comicvine.gamespot.com": "https://comicvine.gamespot.com/search/?header=1&q=Les+Schtroumpfs+Peyo",
		"goodreads.com":          "https://www.goodreads.com/search?q=Les+Schtroumpfs+Peyo+comic",
	}
	for name, link := range want {
		if links[name] != link {
			t.Errorf("%s link = %q, want %q", name, links[name], link)
		}
	}
	if link := DefaultSites[0].Link("", "Peyo"); link != "" {
		t.Errorf("series page probed without a title: %q", link)
	}
}

func TestBand(t *testing.T) {
	for confidence, want := range map[int]string{0: "low", 29: "low", 30: "medium", 59: "medium", 60: "high", 100: "high"} {
		if got := Band(confidence); got != want {
			t.Errorf("Band(%d) = %q, want %q", confidence, got, want)
		}
	}
}
