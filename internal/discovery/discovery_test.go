package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFind(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"a.pdf",
		"B.PDF",
		"notes.txt",
		"sub/c.Pdf",
		"sub/deeper/d.pdf",
		"sub/cover.jpg",
	} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "folder.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(root)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "B.PDF"),
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "sub", "c.Pdf"),
		filepath.Join(root, "sub", "deeper", "d.pdf"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("Find() = %v\nwant %v", got, want)
	}
}

func TestFindMissingRoot(t *testing.T) {
	tests := []struct {
		name string
		root string
	}{
		{name: "empty", root: ""},
		{name: "missing", root: filepath.Join(t.TempDir(), "nope")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Find(tt.root); !errors.Is(err, ErrRootMissing) {
				t.Errorf("Find() error = %v, want ErrRootMissing", err)
			}
		})
	}

	file := filepath.Join(t.TempDir(), "file.pdf")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Find(file); !errors.Is(err, ErrRootMissing) {
		t.Errorf("Find(file) error = %v, want ErrRootMissing", err)
	}
}
