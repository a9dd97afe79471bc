package models

import (
	"strconv"
	"strings"
	"time"
)

// UnknownAuthor is the placeholder stored when no strategy could name an author.
const UnknownAuthor = "Unknown"

// DocumentRecord represents one inventory row, keyed by Filename
type DocumentRecord struct {
	Filename     string     `json:"filename" yaml:"filename"`
	Title        string     `json:"title" yaml:"title"`
	Author       string     `json:"author" yaml:"author"`
	Series       string     `json:"series,omitempty" yaml:"series,omitempty"`
	Volume       string     `json:"volume,omitempty" yaml:"volume,omitempty"`
	ISBN         string     `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`
	PageAnalyzed Page       `json:"page_analyzed,omitempty" yaml:"page_analyzed,omitempty"`
	AnalyzedAt   time.Time  `json:"analysis_timestamp,omitempty" yaml:"analysis_timestamp,omitempty"`
}

// HasAuthor reports whether the record names a real author, not the placeholder.
func (r DocumentRecord) HasAuthor() bool {
	return r.Author != "" && r.Author != UnknownAuthor
}

// Resolved reports whether title and author are both known.
func (r DocumentRecord) Resolved() bool {
	return r.Title != "" && r.HasAuthor()
}

// Exhausted reports whether every page in the rotation has been tried without resolving the record.
func (r DocumentRecord) Exhausted() bool {
	return !r.Resolved() && r.PageAnalyzed == PageThird
}

// ExtractionResult is the output of a single extraction strategy
type ExtractionResult struct {
	Title      string
	Author     string
	Series     string
	Volume     string
	ISBN       string
	Confidence Confidence
	Source     string
}

// Empty reports whether the strategy produced nothing usable.
func (e ExtractionResult) Empty() bool {
	return e.Title == "" && e.Author == "" && e.Series == "" && e.Volume == "" && e.ISBN == ""
}

// SearchResult is one hit returned by a search provider
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Source  string `json:"source"`
}

// ValidationAnalysis is the corroboration score of candidate fields against search results
type ValidationAnalysis struct {
	TitleMatch  bool     `json:"title_match" yaml:"titlematch"`
	AuthorMatch bool     `json:"author_match" yaml:"authormatch"`
	ISBNMatch   bool     `json:"isbn_match" yaml:"isbnmatch"`
	Confidence  int      `json:"confidence" yaml:"confidence"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Source      string   `json:"source" yaml:"source"`
	Query       string   `json:"query" yaml:"query"`
}

// Confidence is an optional score in [0,100]. The zero value is unset.
type Confidence struct {
	value int
	set   bool
}

// NewConfidence returns a set confidence clamped to [0,100].
func NewConfidence(v int) Confidence {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return Confidence{value: v, set: true}
}

// ParseConfidence reads the inventory representation; empty or malformed input is unset.
func ParseConfidence(s string) Confidence {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return Confidence{}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return Confidence{}
		}
		v = int(f + 0.5)
	}
	return NewConfidence(v)
}

func (c Confidence) IsSet() bool { return c.set }

// Value returns the score and whether it is set.
func (c Confidence) Value() (int, bool) { return c.value, c.set }

// Raise returns the larger of c and other. An unset side never wins over a set one.
func (c Confidence) Raise(other Confidence) Confidence {
	if !other.set {
		return c
	}
	if !c.set || other.value > c.value {
		return other
	}
	return c
}

func (c Confidence) String() string {
	if !c.set {
		return ""
	}
	return strconv.Itoa(c.value)
}

func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Confidence) UnmarshalText(b []byte) error {
	*c = ParseConfidence(string(b))
	return nil
}

// Page is the last page submitted to visual analysis. Zero means never tried.
type Page int

const (
	PageNone   Page = 0
	PageFirst  Page = 1
	PageSecond Page = 2
	PageThird  Page = 3
)

// Next returns the page to try after p in the 2 -> 1 -> 3 rotation.
// ok is false once the rotation is exhausted.
func (p Page) Next() (next Page, ok bool) {
	switch p {
	case PageNone:
		return PageSecond, true
	case PageSecond:
		return PageFirst, true
	case PageFirst:
		return PageThird, true
	default:
		return PageNone, false
	}
}

// ParsePage reads the inventory representation; anything outside 1..3 is PageNone.
func ParsePage(s string) Page {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return PageNone
	}
	switch p := Page(v); p {
	case PageFirst, PageSecond, PageThird:
		return p
	default:
		return PageNone
	}
}

func (p Page) String() string {
	if p == PageNone {
		return ""
	}
	return strconv.Itoa(int(p))
}
