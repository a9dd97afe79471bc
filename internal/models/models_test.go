package models

import "testing"

func TestPageRotation(t *testing.T) {
	var seen []Page
	p := PageNone
	for {
		next, ok := p.Next()
		if !ok {
			break
		}
		seen = append(seen, next)
		p = next
	}

	want := []Page{PageSecond, PageFirst, PageThird}
	if len(seen) != len(want) {
		t.Fatalf("rotation = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("step %d = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestParsePage(t *testing.T) {
	tests := map[string]Page{
		"":    PageNone,
		"1":   PageFirst,
		" 2 ": PageSecond,
		"3":   PageThird,
		"4":   PageNone,
		"abc": PageNone,
	}
	for in, want := range tests {
		if got := ParsePage(in); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestConfidenceRaise(t *testing.T) {
	tests := []struct {
		name  string
		cur   Confidence
		other Confidence
		want  string
	}{
		{name: "unset raised by set", cur: Confidence{}, other: NewConfidence(40), want: "40"},
		{name: "never lowered", cur: NewConfidence(90), other: NewConfidence(80), want: "90"},
		{name: "raised", cur: NewConfidence(50), other: NewConfidence(80), want: "80"},
		{name: "unset other ignored", cur: NewConfidence(50), other: Confidence{}, want: "50"},
		{name: "both unset", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cur.Raise(tt.other).String(); got != tt.want {
				t.Errorf("Raise = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseConfidence(t *testing.T) {
	tests := map[string]string{
		"":     "",
		"85":   "85",
		"85%":  "85",
		"150":  "100",
		"-3":   "0",
		"72.6": "73",
		"high": "",
	}
	for in, want := range tests {
		if got := ParseConfidence(in).String(); got != want {
			t.Errorf("ParseConfidence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolved(t *testing.T) {
	tests := []struct {
		name   string
		record DocumentRecord
		want   bool
	}{
		{name: "complete", record: DocumentRecord{Title: "Asterix", Author: "Goscinny"}, want: true},
		{name: "placeholder author", record: DocumentRecord{Title: "Asterix", Author: UnknownAuthor}},
		{name: "missing title", record: DocumentRecord{Author: "Goscinny"}},
		{name: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Resolved(); got != tt.want {
				t.Errorf("Resolved() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExhausted(t *testing.T) {
	r := DocumentRecord{Title: "Asterix", PageAnalyzed: PageThird}
	if !r.Exhausted() {
		t.Error("unresolved record at page 3 should be exhausted")
	}
	r.Author = "Goscinny"
	if r.Exhausted() {
		t.Error("resolved record is never exhausted")
	}
}
