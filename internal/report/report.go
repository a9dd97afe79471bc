// Package report writes a YAML summary of a scan run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tri-bd/bdscan/internal/fusion"
	"github.com/tri-bd/bdscan/internal/inventory"
)

// RunConfig is the configuration section of the report.
type RunConfig struct {
	RunID          string `yaml:"runid"`
	SourceDir      string `yaml:"sourcedir"`
	Inventory      string `yaml:"inventory"`
	VisionProvider string `yaml:"visionprovider,omitempty"`
	VisionModel    string `yaml:"visionmodel,omitempty"`
	WebValidation  bool   `yaml:"webvalidation"`
	Started        string `yaml:"started"`
	Finished       string `yaml:"finished"`
}

// Summary holds the run counters.
type Summary struct {
	Scanned   int      `yaml:"scanned"`
	Processed int      `yaml:"processed"`
	Skipped   int      `yaml:"skipped"`
	Errors    int      `yaml:"errors"`
	Changed   int      `yaml:"changed"`
	Cancelled bool     `yaml:"cancelled,omitempty"`
	Authors   []string `yaml:"authors"`
}

// DocumentResult is one document of the run.
type DocumentResult struct {
	File             string   `yaml:"file"`
	Outcome          string   `yaml:"outcome"`
	Changed          bool     `yaml:"changed"`
	Title            string   `yaml:"title,omitempty"`
	Author           string   `yaml:"author,omitempty"`
	Confidence       string   `yaml:"confidence,omitempty"`
	PageAnalyzed     string   `yaml:"pageanalyzed,omitempty"`
	ValidationSource string   `yaml:"validationsource,omitempty"`
	ValidationScore  *int     `yaml:"validationscore,omitempty"`
	Suggestions      []string `yaml:"suggestions,omitempty"`
	Error            string   `yaml:"error,omitempty"`
}

// Report is the complete run report.
type Report struct {
	Config    RunConfig        `yaml:"config"`
	Summary   Summary          `yaml:"summary"`
	Documents []DocumentResult `yaml:"documents"`
}

// New builds the report of a finished run.
func New(cfg RunConfig, started, finished time.Time, res fusion.RunResult) Report {
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	cfg.Started = inventory.FormatTimestamp(started)
	cfg.Finished = inventory.FormatTimestamp(finished)

	r := Report{
		Config: cfg,
		Summary: Summary{
			Scanned:   res.Scanned,
			Processed: res.Processed,
			Skipped:   res.Skipped,
			Errors:    res.Errors,
			Changed:   res.Changed,
			Cancelled: res.Cancelled,
			Authors:   res.Authors,
		},
		Documents: make([]DocumentResult, 0, len(res.Documents)),
	}

	for _, d := range res.Documents {
		doc := DocumentResult{
			File:         d.File,
			Outcome:      string(d.Outcome),
			Changed:      d.Changed,
			Title:        d.Record.Title,
			Author:       d.Record.Author,
			Confidence:   d.Record.Confidence.String(),
			PageAnalyzed: d.Record.PageAnalyzed.String(),
		}
		if d.Validation != nil {
			score := d.Validation.Confidence
			doc.ValidationSource = d.Validation.Source
			doc.ValidationScore = &score
			doc.Suggestions = d.Validation.Suggestions
		}
		if d.Err != nil {
			doc.Error = d.Err.Error()
		}
		r.Documents = append(r.Documents, doc)
	}
	return r
}

// Save writes the report to dir as run-<timestamp>-<id>.yaml and returns its path.
func (r Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	stamp := time.Now().Format("2006-01-02_15-04-05")
	id := r.Config.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	filename := filepath.Join(dir, fmt.Sprintf("run-%s-%s.yaml", stamp, id))

	data, err := yaml.Marshal(&r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	return absPath, nil
}
