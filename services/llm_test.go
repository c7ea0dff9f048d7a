package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLLM(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("LLM_BASE_URL", server.URL)
	t.Setenv("LLM_MODEL", "test-model")
	return NewLLMService()
}

func TestGenerateSendsPromptAndReturnsResponse(t *testing.T) {
	var gotReq generateRequest
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(generateResponse{
			Model:    "test-model",
			Response: `{"quantity": 500}`,
			Done:     true,
		})
	})

	got, err := llm.Generate(context.Background(), "analyze this")
	require.NoError(t, err)

	assert.Equal(t, `{"quantity": 500}`, got)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, "analyze this", gotReq.Prompt)
	assert.False(t, gotReq.Stream)
}

func TestGenerateErrorOnServerFailure(t *testing.T) {
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := llm.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGenerateErrorOnEmptyResponse(t *testing.T) {
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Done: true})
	})

	_, err := llm.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, llm.Ping(context.Background()))
}

func TestPingUnreachable(t *testing.T) {
	t.Setenv("LLM_BASE_URL", "http://127.0.0.1:1")
	llm := NewLLMService()

	assert.Error(t, llm.Ping(context.Background()))
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n[1, 2]\n```", "[1, 2]"},
		{`{"a": 1}`, `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFences(tt.in))
	}
}

func TestExtractJSONSpans(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, extractJSONObject(`noise {"a": 1} trailing`))
	assert.Equal(t, "", extractJSONObject("no braces here"))
	assert.Equal(t, `[{"a": 1}]`, extractJSONArray(`Sure! [{"a": 1}] hope that helps`))
	assert.Equal(t, "", extractJSONArray("nothing"))
}
