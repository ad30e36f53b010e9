package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gen, err := NewGenerator(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return gen
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(Config{})
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var gotReq chatCompletionRequest

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  grounded answer  "}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	answer, err := gen.Generate(context.Background(), "what is attention?", "stay grounded")
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", answer)

	// System prompt first, user prompt second, temperature pinned to 0.
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "stay grounded", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Zero(t, gotReq.Temperature)
}

func TestGenerate_ProviderUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusBadGateway} {
		gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})

		_, err := gen.Generate(context.Background(), "q", "")
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable, "status %d", status)
	}
}

func TestGenerate_Unreachable(t *testing.T) {
	gen, err := NewGenerator(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "q", "")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestGenerate_APIError(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"error": map[string]any{"message": "model decommissioned", "type": "invalid_request_error"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	_, err := gen.Generate(context.Background(), "q", "")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestGenerate_NoChoices(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := gen.Generate(context.Background(), "q", "")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestPing(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, gen.Ping(context.Background()))
}
