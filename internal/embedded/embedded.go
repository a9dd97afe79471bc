// Package embedded reads the document information dictionary of a PDF file.
package embedded

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tri-bd/bdscan/internal/models"
)

// Source tags results produced by this package.
const Source = "embedded"

// ErrUnreadable is returned when the document cannot be parsed at all.
var ErrUnreadable = errors.New("document unreadable")

// Metadata holds the fields of the PDF /Info dictionary. Any of them may be empty.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
	Pages    int
}

// Result converts the metadata to an extraction result.
func (m Metadata) Result() models.ExtractionResult {
	return models.ExtractionResult{Title: m.Title, Author: m.Author, Source: Source}
}

// Extractor reads embedded metadata from files on disk
type Extractor struct{}

// New returns a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// Read parses path and returns its info dictionary. Parse failures, including
// panics raised by the PDF parser on malformed input, wrap ErrUnreadable.
func (e *Extractor) Read(path string) (meta Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			meta = Metadata{}
			err = fmt.Errorf("%w: %s: %v", ErrUnreadable, path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	defer f.Close()

	info := r.Trailer().Key("Info")
	meta = Metadata{
		Title:    clean(info.Key("Title").Text()),
		Author:   clean(info.Key("Author").Text()),
		Subject:  clean(info.Key("Subject").Text()),
		Keywords: clean(info.Key("Keywords").Text()),
		Creator:  clean(info.Key("Creator").Text()),
		Producer: clean(info.Key("Producer").Text()),
		Pages:    r.NumPage(),
	}
	return meta, nil
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}
