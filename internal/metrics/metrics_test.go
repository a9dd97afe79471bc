package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfile(t *testing.T) {
	DocumentsTotal.WithLabelValues("analyzed").Inc()
	SearchRequestsTotal.WithLabelValues("duckduckgo", "hit").Inc()

	path := filepath.Join(t.TempDir(), "bdscan.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`bdscan_documents_total{outcome="analyzed"}`,
		`bdscan_search_requests_total{provider="duckduckgo",status="hit"}`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %s", want)
		}
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}
