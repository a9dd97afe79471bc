package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/documents/{filename}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, name := range []string{"a.pdf", "b.pdf"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/documents/"+name, http.NoBody))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rr.Code)
		}
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/documents/{filename}", "404"))
	if got != 2 {
		t.Errorf("http_requests_total = %v, want 2 under one route label", got)
	}
}
