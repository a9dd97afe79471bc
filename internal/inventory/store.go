// Package inventory persists document records in a delimited file keyed by
// file name. Rows that were not touched during a run are written back
// byte for byte.
package inventory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tri-bd/bdscan/internal/models"
)

// entry is one inventory row. raw holds the row exactly as read, and is reused
// on save until the record is replaced.
type entry struct {
	record models.DocumentRecord
	raw    []byte
}

// Store holds the inventory in file order.
type Store struct {
	path  string
	mu    sync.RWMutex
	order []string
	rows  map[string]*entry
}

// New returns an empty store that saves to path.
func New(path string) *Store {
	return &Store{
		path: path,
		rows: make(map[string]*entry),
	}
}

// Load reads the inventory at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := New(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("No inventory yet, starting empty", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	if err := s.parse(data); err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	slog.Info("Inventory loaded", "path", path, "records", len(s.order))
	return s, nil
}

func (s *Store) parse(data []byte) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	cols, canonical, err := mapHeader(header)
	if err != nil {
		return err
	}

	for {
		start := r.InputOffset()
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		end := r.InputOffset()

		rec := cols.record(fields)
		if rec.Filename == "" {
			continue
		}

		e := &entry{record: rec}
		if canonical {
			e.raw = bytes.Clone(data[start:end])
		}
		if _, dup := s.rows[rec.Filename]; dup {
			slog.Warn("Duplicate inventory row, keeping the last one", "file", rec.Filename)
		} else {
			s.order = append(s.order, rec.Filename)
		}
		s.rows[rec.Filename] = e
	}
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// Get returns the record for filename.
func (s *Store) Get(filename string) (models.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.rows[filename]
	if !ok {
		return models.DocumentRecord{}, false
	}
	return e.record, true
}

// Put replaces the record with the same file name, or appends it.
func (s *Store) Put(r models.DocumentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.Filename]; !ok {
		s.order = append(s.order, r.Filename)
	}
	s.rows[r.Filename] = &entry{record: r}
}

// All returns every record in file order.
func (s *Store) All() []models.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.DocumentRecord, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.rows[name].record)
	}
	return result
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Authors returns the sorted distinct authors, without the unknown placeholder.
func (s *Store) Authors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	var authors []string
	for _, e := range s.rows {
		if !e.record.HasAuthor() {
			continue
		}
		if _, ok := seen[e.record.Author]; ok {
			continue
		}
		seen[e.record.Author] = struct{}{}
		authors = append(authors, e.record.Author)
	}
	slices.Sort(authors)
	return authors
}

// Save writes the inventory to a temporary file next to the target and renames
// it into place.
func (s *Store) Save() error {
	data, err := s.encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary inventory: %w", err)
	}
	defer os.Remove(tmp.Name())

	mode := os.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		slog.Warn("Failed to set inventory permissions", "path", tmp.Name(), "err", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace inventory: %w", err)
	}
	slog.Info("Inventory saved", "path", s.path, "records", s.Len())
	return nil
}

// Backup moves the file at path aside to path + ".bak", replacing any earlier
// backup, and returns the backup path.
func Backup(path string) (string, error) {
	backup := path + ".bak"
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("failed to back up inventory: %w", err)
	}
	return backup, nil
}

func (s *Store) encode() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}

	for _, name := range s.order {
		e := s.rows[name]
		if e.raw != nil {
			w.Flush()
			buf.Write(e.raw)
			if !bytes.HasSuffix(e.raw, []byte("\n")) {
				buf.WriteByte('\n')
			}
			continue
		}
		if err := w.Write(fields(e.record)); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode inventory: %w", err)
	}
	return buf.Bytes(), nil
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
