// Package fusion merges the extraction strategies into one inventory record per
// document and drives the page rotation across runs.
package fusion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/tri-bd/bdscan/internal/embedded"
	"github.com/tri-bd/bdscan/internal/filename"
	"github.com/tri-bd/bdscan/internal/models"
	"github.com/tri-bd/bdscan/internal/render"
	"github.com/tri-bd/bdscan/internal/vision"
	"github.com/tri-bd/bdscan/internal/websearch"
)

// validationThreshold is the validation confidence above which the stored
// confidence may be raised.
const validationThreshold = 60

// MetadataReader reads the embedded metadata of a document.
type MetadataReader interface {
	Read(path string) (embedded.Metadata, error)
}

// Analyzer extracts fields from one rendered page.
type Analyzer interface {
	Available() bool
	Analyze(ctx context.Context, path string, page models.Page) (models.ExtractionResult, error)
}

// Validator corroborates fields against web search.
type Validator interface {
	Validate(ctx context.Context, c websearch.Candidate) (models.ValidationAnalysis, error)
}

// Outcome classifies what happened to one document.
type Outcome string

const (
	OutcomeAnalyzed    Outcome = "analyzed"
	OutcomeRevalidated Outcome = "revalidated"
	OutcomeExhausted   Outcome = "exhausted"
	OutcomeError       Outcome = "error"
)

// Result is the record produced for one document.
type Result struct {
	Record  models.DocumentRecord
	Outcome Outcome
	// Changed is false when Record equals the prior record, so its inventory row
	// can be kept as is.
	Changed    bool
	Validation *models.ValidationAnalysis
}

// Engine runs the extraction cascade. Analyzer and Validator may be nil; a nil
// Validator disables cross-validation.
type Engine struct {
	Reader    MetadataReader
	Analyzer  Analyzer
	Validator Validator
	Now       func() time.Time
}

// New returns an engine with the embedded metadata reader and the wall clock.
func New(a Analyzer, v Validator) *Engine {
	return &Engine{
		Reader:    embedded.New(),
		Analyzer:  a,
		Validator: v,
		Now:       time.Now,
	}
}

// Process resolves the document at path. prior is the stored record, or nil for
// a document seen for the first time. The returned error is non-nil only for an
// unreadable document, in which case the prior record is returned unchanged.
func (e *Engine) Process(ctx context.Context, path string, prior *models.DocumentRecord) (Result, error) {
	name := filepath.Base(path)

	draft := models.DocumentRecord{Filename: name}
	if prior != nil {
		draft = *prior
		draft.Filename = name
	}

	switch {
	case prior != nil && prior.Exhausted():
		slog.Info("Skipping document, every page was analyzed", "file", name)
		return Result{Record: *prior, Outcome: OutcomeExhausted}, nil

	case prior != nil && prior.Resolved():
		slog.Info("Document already resolved, revalidating", "file", name, "title", prior.Title, "author", prior.Author)
		res := Result{Outcome: OutcomeRevalidated}
		res.Validation = e.validate(ctx, &draft)
		res.Record = draft
		res.Changed = !sameRecord(draft, *prior)
		return res, nil
	}

	meta, err := e.Reader.Read(path)
	if err != nil {
		res := Result{Outcome: OutcomeError}
		if prior != nil {
			res.Record = *prior
		}
		return res, fmt.Errorf("failed to read embedded metadata: %w", err)
	}

	e.applyEmbedded(&draft, meta)
	e.applyFilename(&draft, prior)
	if !draft.Resolved() {
		e.applyVision(ctx, &draft, path, meta.Pages)
	}

	res := Result{Outcome: OutcomeAnalyzed}
	res.Validation = e.validate(ctx, &draft)
	draft.AnalyzedAt = e.now()
	res.Record = draft
	res.Changed = prior == nil || !sameRecord(draft, *prior)
	return res, nil
}

// applyEmbedded fills empty title and author from the info dictionary.
func (e *Engine) applyEmbedded(draft *models.DocumentRecord, meta embedded.Metadata) {
	r := meta.Result()
	if r.Empty() {
		slog.Debug("No embedded metadata", "file", draft.Filename)
		return
	}
	fillEmpty(draft, r)
	slog.Debug("Embedded metadata applied", "file", draft.Filename, "title", draft.Title, "author", draft.Author)
}

// applyFilename fills empty title and author from the file name, unless a prior
// run scored the record but left those fields empty.
func (e *Engine) applyFilename(draft *models.DocumentRecord, prior *models.DocumentRecord) {
	if draft.Title != "" && draft.HasAuthor() {
		return
	}
	if prior != nil && prior.Confidence.IsSet() {
		slog.Debug("Keeping empty fields of a scored record", "file", draft.Filename)
		return
	}
	r := filename.Parse(draft.Filename)
	fillEmpty(draft, r)
	slog.Debug("File name heuristics applied", "file", draft.Filename, "rule", r.Source, "title", draft.Title, "author", draft.Author)
}

// applyVision analyzes the next page of the rotation. Any non-empty field of the
// reply overwrites the draft. The page counts as tried whenever an analysis was
// attempted, even if rendering or the API call failed.
func (e *Engine) applyVision(ctx context.Context, draft *models.DocumentRecord, path string, pages int) {
	if e.Analyzer == nil || !e.Analyzer.Available() {
		slog.Debug("Vision analysis unavailable, skipping", "file", draft.Filename)
		return
	}
	page, ok := draft.PageAnalyzed.Next()
	if !ok {
		return
	}
	draft.PageAnalyzed = page

	if pages > 0 && int(page) > pages {
		slog.Warn("Page out of range, keeping current fields", "file", draft.Filename, "page", int(page), "pages", pages,
			"err", render.ErrRenderFailed)
		return
	}

	r, err := e.Analyzer.Analyze(ctx, path, page)
	switch {
	case errors.Is(err, render.ErrRenderFailed):
		slog.Warn("Page render failed, keeping current fields", "file", draft.Filename, "page", int(page), "err", err)
		return
	case errors.Is(err, vision.ErrUnavailable):
		slog.Warn("Vision analysis failed, keeping current fields", "file", draft.Filename, "page", int(page), "err", err)
		return
	case err != nil:
		slog.Warn("Vision analysis error, keeping current fields", "file", draft.Filename, "page", int(page), "err", err)
		return
	}

	overwrite(draft, r)
	slog.Info("Vision analysis applied", "file", draft.Filename, "page", int(page), "source", r.Source,
		"title", draft.Title, "author", draft.Author, "confidence", draft.Confidence.String())
}

// validate cross-checks the draft and raises its confidence when the web
// corroborates it well enough. Confidence never decreases.
func (e *Engine) validate(ctx context.Context, draft *models.DocumentRecord) *models.ValidationAnalysis {
	if e.Validator == nil {
		return nil
	}
	a, err := e.Validator.Validate(ctx, websearch.Candidate{Title: draft.Title, Author: draft.Author, ISBN: draft.ISBN})
	if err != nil {
		slog.Info("Web validation unavailable", "file", draft.Filename, "reason", err)
		return nil
	}
	websearch.Log(draft.Filename, a)

	if a.Confidence > validationThreshold {
		before := draft.Confidence
		draft.Confidence = draft.Confidence.Raise(models.NewConfidence(a.Confidence))
		if draft.Confidence != before {
			slog.Info("Confidence raised by web validation", "file", draft.Filename,
				"from", before.String(), "to", draft.Confidence.String())
		}
	}
	return &a
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

// fillEmpty copies title and author from r where the draft has none. The unknown
// author placeholder counts as none.
func fillEmpty(draft *models.DocumentRecord, r models.ExtractionResult) {
	if draft.Title == "" && r.Title != "" {
		draft.Title = r.Title
	}
	if !draft.HasAuthor() && r.Author != "" {
		draft.Author = r.Author
	}
}

// overwrite copies every non-empty field of r and raises the confidence. An
// empty answer leaves the confidence alone.
func overwrite(draft *models.DocumentRecord, r models.ExtractionResult) {
	if r.Empty() {
		return
	}
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&draft.Title, r.Title},
		{&draft.Author, r.Author},
		{&draft.Series, r.Series},
		{&draft.Volume, r.Volume},
		{&draft.ISBN, r.ISBN},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	draft.Confidence = draft.Confidence.Raise(r.Confidence)
}

func sameRecord(a, b models.DocumentRecord) bool {
	return a.Filename == b.Filename &&
		a.Title == b.Title &&
		a.Author == b.Author &&
		a.Series == b.Series &&
		a.Volume == b.Volume &&
		a.ISBN == b.ISBN &&
		a.Confidence == b.Confidence &&
		a.PageAnalyzed == b.PageAnalyzed &&
		a.AnalyzedAt.Equal(b.AnalyzedAt)
}
