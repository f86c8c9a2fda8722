package embedder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ctxrank/internal/metrics"
)

// Provider names and defaults.
const (
	ProviderJina   = "jina"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	DefaultJinaModel   = "jina-embeddings-v3"
	DefaultOpenAIModel = "text-embedding-3-small"

	JinaDimension   = 1024
	OpenAIDimension = 1536
	LocalDimension  = 384

	jinaEndpoint   = "https://api.jina.ai/v1/embeddings"
	openaiEndpoint = "https://api.openai.com/v1/embeddings"
)

// httpProvider implements Embedder against an OpenAI-compatible embeddings
// endpoint. Jina and OpenAI share the same request and response shape.
type httpProvider struct {
	name      string
	endpoint  string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

// ProviderOption adjusts an HTTP provider, mainly for tests.
type ProviderOption func(*httpProvider)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(url string) ProviderOption {
	return func(p *httpProvider) { p.endpoint = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *httpProvider) { p.client = c }
}

// WithModel overrides the model name.
func WithModel(model string) ProviderOption {
	return func(p *httpProvider) { p.model = model }
}

// NewJinaProvider returns an Embedder backed by the Jina AI API.
func NewJinaProvider(apiKey string, opts ...ProviderOption) (Embedder, error) {
	return newHTTPProvider(ProviderJina, jinaEndpoint, apiKey, DefaultJinaModel, JinaDimension, opts)
}

// NewOpenAIProvider returns an Embedder backed by the OpenAI API.
func NewOpenAIProvider(apiKey string, opts ...ProviderOption) (Embedder, error) {
	return newHTTPProvider(ProviderOpenAI, openaiEndpoint, apiKey, DefaultOpenAIModel, OpenAIDimension, opts)
}

func newHTTPProvider(name, endpoint, apiKey, model string, dimension int, opts []ProviderOption) (Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s API key not set", ErrProviderFailed, name)
	}

	p := &httpProvider{
		name:      name,
		endpoint:  endpoint,
		apiKey:    apiKey,
		model:     model,
		dimension: dimension,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *httpProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	vector, err := retryWithBackoff(ctx, func() ([]float32, error) {
		return p.callAPI(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderFailed, p.name, err)
	}
	return vector, nil
}

func (p *httpProvider) callAPI(ctx context.Context, text string) ([]float32, error) {
	metrics.ProviderCalls.Inc()

	body, err := json.Marshal(map[string]any{
		"input": []string{text},
		"model": p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.ProviderErrors.Inc()
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderErrors.Inc()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(msg))
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		metrics.ProviderErrors.Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Data) == 0 {
		metrics.ProviderErrors.Inc()
		return nil, fmt.Errorf("no embeddings returned")
	}
	return apiResp.Data[0].Embedding, nil
}

func (p *httpProvider) Name() string   { return p.name }
func (p *httpProvider) Dimension() int { return p.dimension }

func (p *httpProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// LocalProvider generates deterministic offline embeddings from the SHA-256
// of the text. Identical text always yields the identical vector, which is
// what the idempotence guarantees of the engine rely on in offline mode.
type LocalProvider struct{}

// NewLocalProvider returns the offline embedder.
func NewLocalProvider() *LocalProvider { return &LocalProvider{} }

func (l *LocalProvider) Embed(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	// Stretch the 32 hash bytes across the full dimension so nearby texts
	// do not collapse onto a shared prefix.
	vector := make([]float32, LocalDimension)
	seed := sha256.Sum256([]byte(text))
	for i := range vector {
		if i%len(seed) == 0 && i > 0 {
			seed = sha256.Sum256(seed[:])
		}
		vector[i] = float32(seed[i%len(seed)])/127.5 - 1
	}
	return Normalize(vector), nil
}

func (l *LocalProvider) Name() string   { return ProviderLocal }
func (l *LocalProvider) Dimension() int { return LocalDimension }
func (l *LocalProvider) Close() error   { return nil }
