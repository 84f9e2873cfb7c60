package core

import (
	"context"

	"github.com/safemind-ai/safemind/internal/models"
)

type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// FragmentFunc receives one generated text fragment. Returning an
// error aborts the stream; no further fragments are delivered.
type FragmentFunc func(fragment string) error

// StreamingLLM produces a reply as a lazy sequence of text fragments.
// Fragments are delivered in generation order, one call per fragment.
type StreamingLLM interface {
	GenerateStream(ctx context.Context, systemPrompt string, history []models.Message, userText string, onFragment FragmentFunc) error
}

// Retriever answers a free-text query with up to k candidate passages.
// Scores are distances: lower means a closer match.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedPassage, error)
}
