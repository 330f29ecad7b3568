package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skill-bridge/internal/config"
	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/pkg/logger"
)

var (
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrUnknownProvider   = errors.New("unknown embedding provider")
	ErrMissingAPIKey     = errors.New("embedding api key not configured")
)

const (
	ProviderHash   = "hash"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Vector []float64

func Zero(dims int) Vector {
	if dims < 0 {
		dims = 0
	}
	return make(Vector, dims)
}

func (v Vector) Clone() Vector {
	return append(Vector(nil), v...)
}

// Provider maps strings to fixed-length vectors. Implementations are built
// once per process and shared; every vector one instance returns has
// Dimensions() entries.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([]Vector, error)
	Dimensions() int
	Model() string
}

// New builds the configured provider wrapped in the caching decorator.
func New(ctx context.Context, cfg config.EmbeddingConfig, redis *cache.Redis, log *logger.Logger) (*Cached, error) {
	var (
		p   Provider
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderHash:
		p = NewHashProvider(cfg.Dimensions)
	case ProviderOpenAI:
		p, err = NewOpenAIProvider(OpenAIConfig{
			BaseURL:    cfg.OpenAIBaseURL,
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case ProviderGemini:
		p, err = NewGeminiProvider(ctx, GeminiConfig{
			APIKey:     cfg.GoogleAPIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BaseURL:    cfg.GeminiBaseURL,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Info("embedding provider ready", "provider", cfg.Provider, "model", p.Model(), "dimensions", p.Dimensions())
	return NewCached(p, redis, cfg.CacheTTL, log), nil
}

func checkDims(vecs []Vector, want int) error {
	for i, v := range vecs {
		if len(v) != want {
			return fmt.Errorf("%w: index %d has %d, want %d", ErrDimensionMismatch, i, len(v), want)
		}
	}
	return nil
}
