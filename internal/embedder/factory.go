package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by the factory.
const (
	EnvProvider     = "CTXRANK_EMBEDDING_PROVIDER"
	EnvJinaAPIKey   = "JINA_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// New creates an embedder for the named provider. An empty provider name
// falls back to environment detection.
func New(provider, apiKey string) (Embedder, error) {
	if provider == "" {
		return NewFromEnv()
	}

	switch strings.ToLower(provider) {
	case ProviderJina:
		if apiKey == "" {
			apiKey = os.Getenv(EnvJinaAPIKey)
		}
		return NewJinaProvider(apiKey)
	case ProviderOpenAI:
		if apiKey == "" {
			apiKey = os.Getenv(EnvOpenAIAPIKey)
		}
		return NewOpenAIProvider(apiKey)
	case ProviderLocal:
		return NewLocalProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}

// NewFromEnv selects a provider from the environment: explicit override
// first, then whichever API key is present, then the offline fallback.
func NewFromEnv() (Embedder, error) {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return New(provider, "")
	}

	if key := os.Getenv(EnvJinaAPIKey); key != "" {
		return NewJinaProvider(key)
	}
	if key := os.Getenv(EnvOpenAIAPIKey); key != "" {
		return NewOpenAIProvider(key)
	}
	return NewLocalProvider(), nil
}

// DetectProvider reports which provider NewFromEnv would choose.
func DetectProvider() string {
	if provider := os.Getenv(EnvProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvJinaAPIKey) != "" {
		return ProviderJina
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}
