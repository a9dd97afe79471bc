// Package render rasterizes a single document page to a temporary PNG file.
//
// Rendering is delegated to an external rasterizer with the pdftoppm command line
// (poppler-utils). Callers own the returned file and must remove it.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ErrRenderFailed is returned when the rasterizer produced no image.
var ErrRenderFailed = errors.New("page render failed")

// Renderer runs the rasterizer command
type Renderer struct {
	Command string
	DPI     int
	TempDir string
}

// New returns a Renderer using command at the given resolution.
func New(command string, dpi int) *Renderer {
	if command == "" {
		command = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &Renderer{Command: command, DPI: dpi}
}

// Render writes page (1-based) of the document at path to a PNG file and returns its path.
func (r *Renderer) Render(ctx context.Context, path string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("%w: invalid page %d", ErrRenderFailed, page)
	}

	dir, err := os.MkdirTemp(r.TempDir, "bdscan-page-*")
	if err != nil {
		return "", fmt.Errorf("failed to create render directory: %w", err)
	}
	prefix := filepath.Join(dir, "page")

	p := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, r.Command,
		"-f", p, "-l", p,
		"-r", strconv.Itoa(r.DPI),
		"-png", "-singlefile",
		path, prefix,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		removeDir(dir)
		return "", fmt.Errorf("%w: %s page %d: %v: %s", ErrRenderFailed, filepath.Base(path), page, err, out)
	}

	image := prefix + ".png"
	info, err := os.Stat(image)
	if err != nil || info.Size() == 0 {
		removeDir(dir)
		return "", fmt.Errorf("%w: %s page %d produced no image", ErrRenderFailed, filepath.Base(path), page)
	}

	slog.Debug("Rendered page", "file", filepath.Base(path), "page", page, "image", image, "bytes", info.Size())
	return image, nil
}

// Remove deletes an image returned by Render together with its directory.
func Remove(image string) error {
	if err := os.Remove(image); err != nil {
		return err
	}
	return os.Remove(filepath.Dir(image))
}

func removeDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove render directory", "dir", dir, "err", err)
	}
}
