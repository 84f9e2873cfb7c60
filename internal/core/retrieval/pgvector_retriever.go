package retrieval

import (
	"context"
	"fmt"

	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/models"
)

// PgvectorRetriever answers similarity queries against the passages
// table: embed the query text, then nearest-neighbour search by L2
// distance. Scores are therefore distances, lower = closer.
type PgvectorRetriever struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
}

func NewPgvectorRetriever(db core.DbClient, embedder core.EmbeddingProvider) *PgvectorRetriever {
	return &PgvectorRetriever{db: db, embedder: embedder}
}

func (r *PgvectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedPassage, error) {
	vecs, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed query: empty embedding response")
	}

	passages, err := r.db.SearchPassages(ctx, vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("search passages: %w", err)
	}
	return passages, nil
}

var _ core.Retriever = (*PgvectorRetriever)(nil)
