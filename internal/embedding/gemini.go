package embedding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel      = "text-embedding-004"
	defaultGeminiDimensions = 768
)

type GeminiConfig struct {
	APIKey     string
	Model      string
	Dimensions int
	// BaseURL overrides the Gemini API endpoint.
	BaseURL string
}

type GeminiProvider struct {
	models *genai.Models
	model  string
	dims   int
	// requested is sent as the output dimensionality; 0 keeps the model default.
	requested int32
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY", ErrMissingAPIKey)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimSpace(cfg.BaseURL)},
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	p := &GeminiProvider{models: client.Models, model: model, dims: defaultGeminiDimensions}
	if cfg.Dimensions > 0 {
		p.dims = cfg.Dimensions
		p.requested = int32(cfg.Dimensions)
	}
	return p, nil
}

func (p *GeminiProvider) Dimensions() int { return p.dims }
func (p *GeminiProvider) Model() string   { return p.model }

func (p *GeminiProvider) Embed(ctx context.Context, texts []string) ([]Vector, error) {
	if len(texts) == 0 {
		return []Vector{}, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, s := range texts {
		contents = append(contents, &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: s}},
		})
	}

	var embedCfg *genai.EmbedContentConfig
	if p.requested > 0 {
		embedCfg = &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(p.requested)}
	}
	res, err := p.models.EmbedContent(ctx, p.model, contents, embedCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if res == nil || len(res.Embeddings) != len(texts) {
		got := 0
		if res != nil {
			got = len(res.Embeddings)
		}
		return nil, fmt.Errorf("gemini embed: got %d embeddings for %d inputs", got, len(texts))
	}

	out := make([]Vector, len(texts))
	for i, e := range res.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("gemini embed: missing index %d", i)
		}
		v := make(Vector, len(e.Values))
		for j, f := range e.Values {
			v[j] = float64(f)
		}
		out[i] = v
	}
	if err := checkDims(out, p.dims); err != nil {
		return nil, err
	}
	return out, nil
}
