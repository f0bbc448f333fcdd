package search

import "context"

const (
	// ProviderWeaviate identifies the Weaviate-backed vector store.
	ProviderWeaviate = "weaviate"
	// ProviderRedis identifies the Redis (RediSearch) backed vector store.
	ProviderRedis = "redis"
)

const (
	DefaultTopK               = 3
	DefaultThreshold          = 0.7
	DefaultWordCountThreshold = 20
)

// Provider describes a selectable vector store backend.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CollectionInfo describes a collection visible in a backend.
type CollectionInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// EmbeddingConfig is the (provider, model) pair that produced a
// collection's vectors. A query must be embedded with the same pair to be
// comparable against the stored vectors.
type EmbeddingConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Request holds the parameters of a single search call.
type Request struct {
	Query              string  `json:"query"`
	CollectionID       string  `json:"collection_id"`
	Provider           string  `json:"provider"`
	TopK               int     `json:"top_k"`
	Threshold          float64 `json:"threshold"`
	WordCountThreshold int     `json:"word_count_threshold"`
	SaveResults        bool    `json:"save_results"`
}

// withDefaults fills unset numeric parameters. TopK and the word count
// filter only default when left at zero; a zero threshold is a valid
// request value so only negative values reset to the default.
func (r Request) withDefaults() Request {
	if r.TopK <= 0 {
		r.TopK = DefaultTopK
	}
	if r.Threshold < 0 {
		r.Threshold = DefaultThreshold
	}
	if r.WordCountThreshold < 0 {
		r.WordCountThreshold = DefaultWordCountThreshold
	}
	return r
}

// HitMetadata is the fixed metadata set carried by every canonical hit.
// Fields the backend did not store default to zero values.
type HitMetadata struct {
	Source             string `json:"source"`
	Page               int    `json:"page"`
	Chunk              int    `json:"chunk"`
	TotalChunks        int    `json:"total_chunks"`
	PageRange          string `json:"page_range"`
	EmbeddingProvider  string `json:"embedding_provider"`
	EmbeddingModel     string `json:"embedding_model"`
	EmbeddingTimestamp string `json:"embedding_timestamp"`
}

// Hit is the canonical result record both backends are mapped into.
// Score is cosine similarity in [-1, 1], higher is more similar,
// regardless of the backend's native metric.
type Hit struct {
	Text     string      `json:"text"`
	Score    float64     `json:"score"`
	Metadata HitMetadata `json:"metadata"`
}

// Response is the result of a search call. SavedPath and SaveError are
// only set when the request asked for result persistence.
type Response struct {
	Results   []Hit  `json:"results"`
	SavedPath string `json:"saved_filepath,omitempty"`
	SaveError string `json:"save_error,omitempty"`
}

// Embedder vectorizes query text with a specific provider/model pair.
type Embedder interface {
	Embed(ctx context.Context, provider, model, text string) ([]float32, error)
}

// ResultWriter persists a canonical result set and returns the location it
// was written to.
type ResultWriter interface {
	Save(ctx context.Context, query, collectionID string, results []Hit) (string, error)
}
