package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_Deterministic(t *testing.T) {
	p := NewLocalProvider()
	ctx := context.Background()

	a, err := p.Embed(ctx, "func Login(user string) error")
	require.NoError(t, err)
	b, err := p.Embed(ctx, "func Login(user string) error")
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical text must embed identically")
	assert.Len(t, a, LocalDimension)

	c, err := p.Embed(ctx, "something else entirely")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestLocalProvider_UnitLength(t *testing.T) {
	p := NewLocalProvider()

	vec, err := p.Embed(context.Background(), "normalize me")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, Cosine(vec, vec), 1e-5)
}

func TestLocalProvider_EmptyText(t *testing.T) {
	p := NewLocalProvider()

	_, err := p.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{1}), "mismatched lengths")
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}), "zero vector")
}

func embeddingsHandler(t *testing.T, vector []float32, wantAuth string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 1)
		assert.NotEmpty(t, req.Model)

		resp := map[string]any{
			"data": []map[string]any{{"embedding": vector}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestHTTPProvider_Embed(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3}
	srv := httptest.NewServer(embeddingsHandler(t, want, "Bearer test-key"))
	defer srv.Close()

	p, err := NewOpenAIProvider("test-key", WithEndpoint(srv.URL))
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	got, err := p.Embed(context.Background(), "some code")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHTTPProvider_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream busy", http.StatusServiceUnavailable)
			return
		}
		resp := map[string]any{"data": []map[string]any{{"embedding": []float32{1}}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewJinaProvider("k", WithEndpoint(srv.URL))
	require.NoError(t, err)

	got, err := p.Embed(context.Background(), "retry me")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, got)
	assert.EqualValues(t, 3, calls.Load())
}

func TestHTTPProvider_FailureIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("k", WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, ErrProviderFailed)
}

func TestHTTPProvider_MissingKey(t *testing.T) {
	_, err := NewOpenAIProvider("")
	assert.Error(t, err)

	_, err = NewJinaProvider("")
	assert.Error(t, err)
}

func TestNew_ProviderSelection(t *testing.T) {
	p, err := New(ProviderLocal, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, p.Name())

	p, err = New("OPENAI", "some-key")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p.Name())
	assert.Equal(t, OpenAIDimension, p.Dimension())

	_, err = New("mystery", "k")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestDetectProvider(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvJinaAPIKey, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	assert.Equal(t, ProviderLocal, DetectProvider())

	t.Setenv(EnvOpenAIAPIKey, "ok")
	assert.Equal(t, ProviderOpenAI, DetectProvider())

	t.Setenv(EnvJinaAPIKey, "jk")
	assert.Equal(t, ProviderJina, DetectProvider(), "jina wins over openai")

	t.Setenv(EnvProvider, "Local")
	assert.Equal(t, ProviderLocal, DetectProvider(), "explicit override wins")
}
