package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tri-bd/bdscan/internal/providers"
)

func TestExtractText(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"title\":\"Spirou\"}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	o := New("secret", server.URL+"/v1")
	text, err := o.ExtractText(context.Background(), providers.Config{
		Model:     "gpt-4o",
		MaxTokens: 1000,
		Prompt:    "describe",
		Image:     []byte("PNG"),
	})
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if text != `{"title":"Spirou"}` {
		t.Errorf("text = %q", text)
	}

	messages := got["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	if len(content) != 2 {
		t.Fatalf("content parts = %d, want 2", len(content))
	}
	image := content[1].(map[string]interface{})["image_url"].(map[string]interface{})
	if image["url"] != "data:image/png;base64,UE5H" {
		t.Errorf("image url = %v", image["url"])
	}
}

func TestExtractTextMissingKey(t *testing.T) {
	_, err := New("", "").ExtractText(context.Background(), providers.Config{})
	if !errors.Is(err, providers.ErrMissingCredentials) {
		t.Errorf("error = %v, want ErrMissingCredentials", err)
	}
}
