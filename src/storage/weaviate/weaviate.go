package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"docsearch/src/core/search"
	"docsearch/src/infrastructure/log"
)

// Property names used by the indexer for document chunk objects.
const (
	propContent            = "content"
	propDocumentName       = "documentName"
	propPageNumber         = "pageNumber"
	propChunkID            = "chunkId"
	propTotalChunks        = "totalChunks"
	propPageRange          = "pageRange"
	propWordCount          = "wordCount"
	propEmbeddingProvider  = "embeddingProvider"
	propEmbeddingModel     = "embeddingModel"
	propEmbeddingTimestamp = "embeddingTimestamp"
)

// Config holds the Weaviate connection settings.
type Config struct {
	Host   string
	Scheme string
}

// Store is the Weaviate search backend. Each call builds its own client;
// nothing is shared or cached between calls.
type Store struct {
	cfg Config
}

// NewStore creates a Weaviate backend adapter.
func NewStore(cfg Config) *Store {
	if cfg.Scheme == "" {
		cfg.Scheme = "http"
	}
	return &Store{cfg: cfg}
}

func (s *Store) client() *weaviate.Client {
	return weaviate.New(weaviate.Config{
		Host:   s.cfg.Host,
		Scheme: s.cfg.Scheme,
	})
}

// ListCollections enumerates all classes with their object counts. A class
// whose count query fails is logged and skipped; a schema-level failure
// means the store itself is unreachable.
func (s *Store) ListCollections(ctx context.Context) ([]search.CollectionInfo, error) {
	client := s.client()

	schema, err := client.Schema().Getter().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrBackendUnavailable, err)
	}

	collections := make([]search.CollectionInfo, 0, len(schema.Classes))
	for _, class := range schema.Classes {
		count, err := s.countObjects(ctx, client, class.Class)
		if err != nil {
			log.Error(err, "skipping collection", "collection", class.Class)
			continue
		}
		collections = append(collections, search.CollectionInfo{
			ID:    class.Class,
			Name:  class.Class,
			Count: count,
		})
	}

	return collections, nil
}

func (s *Store) countObjects(ctx context.Context, client *weaviate.Client, className string) (int64, error) {
	result, err := client.GraphQL().Aggregate().
		WithClassName(className).
		WithFields(graphql.Field{
			Name:   "meta",
			Fields: []graphql.Field{{Name: "count"}},
		}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate %s: %w", className, err)
	}
	if err := graphqlErr(result); err != nil {
		return 0, err
	}

	data, ok := result.Data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected aggregate response for %s", className)
	}
	rows, ok := data[className].([]interface{})
	if !ok || len(rows) == 0 {
		return 0, fmt.Errorf("no aggregate rows for %s", className)
	}
	row, ok := rows[0].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected aggregate row for %s", className)
	}
	meta, ok := row["meta"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("missing meta for %s", className)
	}
	count, ok := meta["count"].(float64)
	if !ok {
		return 0, fmt.Errorf("missing count for %s", className)
	}

	return int64(count), nil
}

// ResolveEmbedding reads the embedding fingerprint from one sampled
// object. Every object in a class carries the same fingerprint, so a
// single sample is authoritative.
func (s *Store) ResolveEmbedding(ctx context.Context, collectionID string) (search.EmbeddingConfig, error) {
	client := s.client()

	result, err := client.GraphQL().Get().
		WithClassName(collectionID).
		WithFields(
			graphql.Field{Name: propEmbeddingProvider},
			graphql.Field{Name: propEmbeddingModel},
		).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return search.EmbeddingConfig{}, search.NewBackendError(search.ProviderWeaviate, "resolve embedding", err)
	}
	if err := graphqlErr(result); err != nil {
		return search.EmbeddingConfig{}, search.NewBackendError(search.ProviderWeaviate, "resolve embedding", err)
	}

	objects := classObjects(result, collectionID)
	if len(objects) == 0 {
		return search.EmbeddingConfig{}, fmt.Errorf("%w: %s", search.ErrEmptyCollection, collectionID)
	}

	sample, _ := objects[0].(map[string]interface{})
	return search.EmbeddingConfig{
		Provider: stringProp(sample, propEmbeddingProvider),
		Model:    stringProp(sample, propEmbeddingModel),
	}, nil
}

// VectorSearch runs a nearVector query restricted to objects with at
// least minWordCount words. Weaviate reports cosine distance; hits carry
// the converted similarity.
func (s *Store) VectorSearch(ctx context.Context, collectionID string, vector []float32, topK, minWordCount int) ([]search.Hit, error) {
	client := s.client()

	fields := []graphql.Field{
		{Name: propContent},
		{Name: propDocumentName},
		{Name: propPageNumber},
		{Name: propChunkID},
		{Name: propTotalChunks},
		{Name: propPageRange},
		{Name: propEmbeddingProvider},
		{Name: propEmbeddingModel},
		{Name: propEmbeddingTimestamp},
		{Name: "_additional { distance }"},
	}

	nearVector := client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	where := filters.Where().
		WithPath([]string{propWordCount}).
		WithOperator(filters.GreaterThanEqual).
		WithValueInt(int64(minWordCount))

	result, err := client.GraphQL().Get().
		WithClassName(collectionID).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithWhere(where).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, search.NewBackendError(search.ProviderWeaviate, "vector search", err)
	}
	if err := graphqlErr(result); err != nil {
		return nil, search.NewBackendError(search.ProviderWeaviate, "vector search", err)
	}

	return parseHits(result, collectionID), nil
}

// parseHits maps the GraphQL response objects into canonical hits,
// preserving the response order.
func parseHits(result *models.GraphQLResponse, className string) []search.Hit {
	objects := classObjects(result, className)
	hits := make([]search.Hit, 0, len(objects))

	for _, obj := range objects {
		props, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}

		score := 0.0
		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				score = search.SimilarityFromDistance(distance)
			}
		}

		hits = append(hits, search.Hit{
			Text:  stringProp(props, propContent),
			Score: score,
			Metadata: search.HitMetadata{
				Source:             stringProp(props, propDocumentName),
				Page:               intProp(props, propPageNumber),
				Chunk:              intProp(props, propChunkID),
				TotalChunks:        intProp(props, propTotalChunks),
				PageRange:          stringProp(props, propPageRange),
				EmbeddingProvider:  stringProp(props, propEmbeddingProvider),
				EmbeddingModel:     stringProp(props, propEmbeddingModel),
				EmbeddingTimestamp: stringProp(props, propEmbeddingTimestamp),
			},
		})
	}

	return hits
}

// classObjects extracts the object list for a class from a Get response.
func classObjects(result *models.GraphQLResponse, className string) []interface{} {
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	objects, _ := data[className].([]interface{})
	return objects
}

// graphqlErr surfaces response-level GraphQL errors, which the client
// returns alongside a nil transport error.
func graphqlErr(result *models.GraphQLResponse) error {
	if len(result.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("graphql error: %s", result.Errors[0].Message)
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

// intProp reads a numeric property; missing or malformed values default
// to zero. GraphQL decodes numbers as float64.
func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
