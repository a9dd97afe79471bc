package inventory

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/tri-bd/bdscan/internal/models"
)

// Formats lists the export formats by file extension.
var Formats = []string{"xlsx", "parquet", "yaml"}

// Row is the export form of a record: every value as it appears in the inventory.
type Row struct {
	Filename          string `yaml:"filename" parquet:"filename"`
	Title             string `yaml:"title" parquet:"title"`
	Author            string `yaml:"author" parquet:"author"`
	Series            string `yaml:"series,omitempty" parquet:"series"`
	Volume            string `yaml:"volume,omitempty" parquet:"volume"`
	ISBN              string `yaml:"isbn,omitempty" parquet:"isbn"`
	Confidence        *int32 `yaml:"confidence,omitempty" parquet:"confidence,optional"`
	PageAnalyzed      *int32 `yaml:"page_analyzed,omitempty" parquet:"page_analyzed,optional"`
	AnalysisTimestamp string `yaml:"analysis_timestamp,omitempty" parquet:"analysis_timestamp"`
}

// NewRow converts a record for export.
func NewRow(r models.DocumentRecord) Row {
	row := Row{
		Filename:          r.Filename,
		Title:             r.Title,
		Author:            r.Author,
		Series:            r.Series,
		Volume:            r.Volume,
		ISBN:              r.ISBN,
		AnalysisTimestamp: FormatTimestamp(r.AnalyzedAt),
	}
	if v, ok := r.Confidence.Value(); ok {
		c := int32(v)
		row.Confidence = &c
	}
	if r.PageAnalyzed != models.PageNone {
		p := int32(r.PageAnalyzed)
		row.PageAnalyzed = &p
	}
	return row
}

// Export writes records to path in the format named by its extension.
func Export(path string, records []models.DocumentRecord) error {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, NewRow(r))
	}

	var err error
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "xlsx":
		err = writeXLSX(path, rows)
	case "parquet":
		err = parquet.WriteFile(path, rows)
	case "yaml", "yml":
		err = writeYAML(path, rows)
	default:
		return fmt.Errorf("unsupported export format: %q (supported: %s)", ext, strings.Join(Formats, ", "))
	}
	if err != nil {
		return fmt.Errorf("failed to export inventory to %s: %w", path, err)
	}
	slog.Info("Inventory exported", "path", path, "records", len(rows))
	return nil
}

func writeXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		line := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, line)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Filename)
		write(2, r.Title)
		write(3, r.Author)
		write(4, r.Series)
		write(5, r.Volume)
		write(6, r.ISBN)
		if r.Confidence != nil {
			write(7, *r.Confidence)
		}
		if r.PageAnalyzed != nil {
			write(8, *r.PageAnalyzed)
		}
		write(9, r.AnalysisTimestamp)
	}

	_ = f.SetColWidth(sheet, "A", "A", 40) // filename
	_ = f.SetColWidth(sheet, "B", "C", 32) // title, author
	_ = f.SetColWidth(sheet, "I", "I", 26) // timestamp
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	return f.SaveAs(path)
}

func writeYAML(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string]any{"documents": rows}); err != nil {
		return err
	}
	return encoder.Close()
}
