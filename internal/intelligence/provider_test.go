package intelligence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/llm"
)

// newHTTPTestServer skips the test when the sandbox forbids local listeners.
func newHTTPTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP integration test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	return srv
}

func ollamaHandler(t *testing.T, response string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "json", body["format"])
		assert.Empty(t, body["system"])
		assert.Contains(t, body["prompt"], "Scope:")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "llama3.2", "response": response})
	}
}

func TestLLMProvider_WithOllamaServer(t *testing.T) {
	srv := newHTTPTestServer(t, ollamaHandler(t, samplePayload))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	provider := NewLLMProvider("ollama", llm.NewOllamaClient(cfg, llm.NoopObserver{}))
	svc := NewResearchService([]ResearchProvider{provider})

	got := svc.GetResearchSnippets(context.Background(), boilerRequest())

	assert.Equal(t, "ollama", provider.Name())
	assert.Len(t, got, 5)
}

func TestLLMProvider_ServerDown_FallsBack(t *testing.T) {
	srv := newHTTPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.MaxRetries = 0
	down := NewLLMProvider("ollama", llm.NewOllamaClient(cfg, llm.NoopObserver{}))

	_, err := down.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama research generation failed")

	svc := NewResearchService([]ResearchProvider{down, staticProvider("backup", samplePayload)})
	assert.Len(t, svc.GetResearchSnippets(context.Background(), boilerRequest()), 5)
}
