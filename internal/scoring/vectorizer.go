package scoring

import (
	"context"
	"fmt"
	"math"
)

// TextVectorizer encodes a batch of texts into vectors in one shared space.
// The batch signature lets the TF-IDF backend fit on exactly the texts being
// compared while the embedding backend encodes each text independently.
// Implementations hold no per-call mutable state and are safe for concurrent
// use.
type TextVectorizer interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Embedder is the slice of the Gemini service the embedding vectorizer
// needs.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type embeddingVectorizer struct {
	embedder Embedder
}

// NewEmbeddingVectorizer wraps a pretrained sentence-embedding model behind
// the TextVectorizer interface.
func NewEmbeddingVectorizer(embedder Embedder) TextVectorizer {
	return &embeddingVectorizer{embedder: embedder}
}

func (v *embeddingVectorizer) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		embedding, err := v.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d of %d: %w", i+1, len(texts), err)
		}
		vector := make([]float64, len(embedding))
		for j, value := range embedding {
			vector[j] = float64(value)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// cosineSimilarity of two equal-length vectors; 0 when either is a zero
// vector.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
