package embedding

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates real semantic embeddings through the OpenAI API.
// It satisfies Provider so it can replace HashProvider without the knowledge
// store or routing layer noticing. API failures fall back to the hash
// provider so search keeps working offline.
type OpenAIProvider struct {
	client   *openai.Client
	model    openai.EmbeddingModel
	fallback *HashProvider
}

// NewOpenAIProvider creates a provider backed by the given API key.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		client:   openai.NewClient(apiKey),
		model:    openai.AdaEmbeddingV2,
		fallback: NewHashProvider(DefaultDimensions),
	}
}

// Dimensions returns the vector length of the fallback provider. Vectors
// from the API are truncated or zero-padded to the same length so stored
// entries stay comparable regardless of which path produced them.
func (p *OpenAIProvider) Dimensions() int {
	return p.fallback.Dimensions()
}

// Embed requests an embedding from the API, falling back to the hash
// provider when the request fails.
func (p *OpenAIProvider) Embed(text string) []float64 {
	vector, err := p.EmbedContext(context.Background(), text)
	if err != nil {
		log.Printf("OpenAI embedding failed, using hash fallback: %v", err)
		return p.fallback.Embed(text)
	}
	return vector
}

// EmbedContext requests an embedding from the API.
func (p *OpenAIProvider) EmbedContext(ctx context.Context, text string) ([]float64, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	vector := make([]float64, p.Dimensions())
	for i, v := range resp.Data[0].Embedding {
		if i >= len(vector) {
			break
		}
		vector[i] = float64(v)
	}
	return vector, nil
}
