// Package discovery finds the documents to scan under a root directory.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrRootMissing is returned when the root directory does not exist.
var ErrRootMissing = errors.New("source directory not found")

// Extension is the document extension, matched case-insensitively.
const Extension = ".pdf"

// Find returns the documents under root, recursively, in lexical order.
// Unreadable subdirectories are logged and skipped.
func Find(root string) ([]string, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: no directory configured", ErrRootMissing)
	}
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRootMissing, root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootMissing, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("Skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(d.Name()), Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	slog.Info("Documents found", "root", root, "count", len(files))
	return files, nil
}
