package search

import "context"

// Backend is the capability set every vector store adapter exposes. Each
// implementation opens its own store connection per call and releases it on
// every exit path; no connection state is shared between calls.
//
// VectorSearch returns canonical hits with Score already converted to
// cosine similarity. Ranking order is the store's native nearest-neighbor
// order and must be preserved.
type Backend interface {
	// ListCollections enumerates every visible collection with its entity
	// count. A failure on one collection skips it; a connection-level
	// failure aborts with ErrBackendUnavailable.
	ListCollections(ctx context.Context) ([]CollectionInfo, error)

	// ResolveEmbedding determines which embedding provider/model indexed
	// the collection.
	ResolveEmbedding(ctx context.Context, collectionID string) (EmbeddingConfig, error)

	// VectorSearch runs a nearest-neighbor search restricted to records
	// whose word count is at least minWordCount.
	VectorSearch(ctx context.Context, collectionID string, vector []float32, topK, minWordCount int) ([]Hit, error)
}
