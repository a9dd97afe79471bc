package fusion

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/tri-bd/bdscan/internal/metrics"
	"github.com/tri-bd/bdscan/internal/models"
)

// Inventory is the record store a run reads from and writes to.
type Inventory interface {
	Get(filename string) (models.DocumentRecord, bool)
	Put(r models.DocumentRecord)
}

// RunResult summarises one run.
type RunResult struct {
	Scanned   int
	Processed int
	Skipped   int
	Errors    int
	Changed   int
	// Authors is the sorted set of distinct authors of processed documents.
	Authors []string
	// Cancelled is set when the context ended before every document was handled.
	Cancelled bool
	Documents []Document
}

// Document is the per-document line of a run.
type Document struct {
	File       string
	Outcome    Outcome
	Changed    bool
	Record     models.DocumentRecord
	Validation *models.ValidationAnalysis
	Err        error
}

// Run processes paths one at a time and writes every changed record to inv.
// Per-document failures are counted and never stop the run.
func (e *Engine) Run(ctx context.Context, paths []string, inv Inventory) RunResult {
	var out RunResult
	authors := map[string]struct{}{}

	for i, path := range paths {
		if ctx.Err() != nil {
			slog.Warn("Run interrupted", "handled", i, "total", len(paths), "err", ctx.Err())
			out.Cancelled = true
			break
		}
		out.Scanned++
		name := filepath.Base(path)
		slog.Info("Processing document", "file", name, "index", i+1, "total", len(paths))

		var prior *models.DocumentRecord
		if r, ok := inv.Get(name); ok {
			prior = &r
		}

		res, err := e.Process(ctx, path, prior)
		metrics.DocumentsTotal.WithLabelValues(string(res.Outcome)).Inc()
		out.Documents = append(out.Documents, Document{
			File:       name,
			Outcome:    res.Outcome,
			Changed:    res.Changed,
			Record:     res.Record,
			Validation: res.Validation,
			Err:        err,
		})
		switch {
		case err != nil:
			out.Errors++
			slog.Error("Failed to process document", "file", name, "err", err)
			continue
		case res.Outcome == OutcomeExhausted:
			out.Skipped++
			continue
		}

		out.Processed++
		if res.Changed {
			out.Changed++
			inv.Put(res.Record)
		}
		if res.Record.HasAuthor() {
			authors[res.Record.Author] = struct{}{}
		}
		slog.Info("Document done", "file", name, "outcome", res.Outcome, "changed", res.Changed,
			"title", res.Record.Title, "author", res.Record.Author, "confidence", res.Record.Confidence.String(),
			"page", res.Record.PageAnalyzed.String())
	}

	out.Authors = make([]string, 0, len(authors))
	for a := range authors {
		out.Authors = append(out.Authors, a)
	}
	slices.Sort(out.Authors)
	return out
}
