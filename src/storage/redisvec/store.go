package redisvec

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"docsearch/src/core/embedding"
	"docsearch/src/core/search"
	"docsearch/src/infrastructure/log"
)

const (
	collectionPrefix = "collection:"
	indexPrefix      = "idx:"

	scoreField = "__vector_score"
)

// Document hash fields written by the indexer.
const (
	fieldContent            = "content"
	fieldDocumentName       = "document_name"
	fieldPageNumber         = "page_number"
	fieldChunkID            = "chunk_id"
	fieldTotalChunks        = "total_chunks"
	fieldPageRange          = "page_range"
	fieldWordCount          = "word_count"
	fieldEmbeddingProvider  = "embedding_provider"
	fieldEmbeddingModel     = "embedding_model"
	fieldEmbeddingTimestamp = "embedding_timestamp"
)

// Config holds connection parameters for the Redis store.
type Config struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// Store is the Redis (RediSearch) search backend. Every call dials its own
// client and closes it before returning.
type Store struct {
	cfg     Config
	connect func() (rueidis.Client, error)
}

// NewStore creates a Redis backend adapter.
func NewStore(cfg Config) *Store {
	s := &Store{cfg: cfg}
	s.connect = s.dial
	return s
}

// NewStoreForTest creates a Store over an injected client.
func NewStoreForTest(client rueidis.Client) *Store {
	return &Store{
		connect: func() (rueidis.Client, error) { return client, nil },
	}
}

// dial opens a fresh client. FT.SEARCH result parsing expects the RESP2
// array format.
func (s *Store) dial() (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{s.cfg.Addr},
		Username:     s.cfg.Username,
		Password:     s.cfg.Password,
		SelectDB:     s.cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrBackendUnavailable, err)
	}
	return client, nil
}

// ListCollections scans the collection metadata hashes and counts each
// collection's documents through its index. A collection whose metadata or
// count lookup fails is logged and skipped.
func (s *Store) ListCollections(ctx context.Context) ([]search.CollectionInfo, error) {
	client, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	keys, err := scanKeys(ctx, client, collectionPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrBackendUnavailable, err)
	}

	collections := make([]search.CollectionInfo, 0, len(keys))
	for _, key := range keys {
		id := key[len(collectionPrefix):]

		meta, err := client.Do(ctx, client.B().Hgetall().Key(key).Build()).AsStrMap()
		if err != nil || len(meta) == 0 {
			log.Error(err, "skipping collection", "collection", id)
			continue
		}

		count, err := countDocuments(ctx, client, id)
		if err != nil {
			log.Error(err, "skipping collection", "collection", id)
			continue
		}

		name := meta["name"]
		if name == "" {
			name = id
		}
		collections = append(collections, search.CollectionInfo{
			ID:    id,
			Name:  name,
			Count: count,
		})
	}

	return collections, nil
}

// ResolveEmbedding reads the embedding fingerprint from the collection
// metadata hash. Collections indexed without a recorded fingerprint
// resolve to "unknown" so the caller can degrade instead of failing.
func (s *Store) ResolveEmbedding(ctx context.Context, collectionID string) (search.EmbeddingConfig, error) {
	client, err := s.connect()
	if err != nil {
		return search.EmbeddingConfig{}, err
	}
	defer client.Close()

	meta, err := client.Do(ctx, client.B().Hgetall().Key(collectionPrefix+collectionID).Build()).AsStrMap()
	if err != nil {
		return search.EmbeddingConfig{}, search.NewBackendError(search.ProviderRedis, "resolve embedding", err)
	}
	if len(meta) == 0 {
		return search.EmbeddingConfig{}, search.NewBackendError(search.ProviderRedis, "resolve embedding",
			fmt.Errorf("collection not found: %s", collectionID))
	}

	cfg := search.EmbeddingConfig{
		Provider: meta[fieldEmbeddingProvider],
		Model:    meta[fieldEmbeddingModel],
	}
	if cfg.Provider == "" {
		cfg.Provider = embedding.UnknownProvider
	}
	if cfg.Model == "" {
		cfg.Model = embedding.UnknownProvider
	}

	return cfg, nil
}

// VectorSearch runs an FT.SEARCH KNN query with a numeric pre-filter on
// the word count. The index reports cosine distance in __vector_score;
// hits carry the converted similarity in ascending-distance order.
func (s *Store) VectorSearch(ctx context.Context, collectionID string, vector []float32, topK, minWordCount int) ([]search.Hit, error) {
	client, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	queryStr := fmt.Sprintf("(@%s:[%d +inf])=>[KNN %d @vector $BLOB]",
		fieldWordCount, minWordCount, topK)

	args := []string{
		indexPrefix + collectionID, queryStr,
		"RETURN", "11",
		fieldContent, fieldDocumentName, fieldPageNumber, fieldChunkID,
		fieldTotalChunks, fieldPageRange, fieldEmbeddingProvider,
		fieldEmbeddingModel, fieldEmbeddingTimestamp, fieldWordCount,
		scoreField,
		"SORTBY", scoreField,
		"PARAMS", "2", "BLOB", vectorToBytes(vector),
		"DIALECT", "2",
	}

	cmd := client.B().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, search.NewBackendError(search.ProviderRedis, "vector search", err)
	}

	return parseKNNResult(raw), nil
}

// parseKNNResult decodes the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...].
func parseKNNResult(raw []rueidis.RedisMessage) []search.Hit {
	hits := []search.Hit{}
	if len(raw) == 0 {
		return hits
	}

	total, err := raw[0].AsInt64()
	if err != nil || total == 0 {
		return hits
	}

	for i := 1; i+1 < len(raw); i += 2 {
		fieldMsgs, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		hits = append(hits, hitFromFields(parseFieldPairs(fieldMsgs)))
	}

	return hits
}

// hitFromFields maps a document hash into a canonical hit. Missing fields
// default to empty strings and zeros.
func hitFromFields(fields map[string]string) search.Hit {
	score := 0.0
	if raw, ok := fields[scoreField]; ok {
		if distance, err := strconv.ParseFloat(raw, 64); err == nil {
			score = search.SimilarityFromDistance(distance)
		}
	}

	return search.Hit{
		Text:  fields[fieldContent],
		Score: score,
		Metadata: search.HitMetadata{
			Source:             fields[fieldDocumentName],
			Page:               atoi(fields[fieldPageNumber]),
			Chunk:              atoi(fields[fieldChunkID]),
			TotalChunks:        atoi(fields[fieldTotalChunks]),
			PageRange:          fields[fieldPageRange],
			EmbeddingProvider:  fields[fieldEmbeddingProvider],
			EmbeddingModel:     fields[fieldEmbeddingModel],
			EmbeddingTimestamp: fields[fieldEmbeddingTimestamp],
		},
	}
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// countDocuments returns the document count via FT.SEARCH with LIMIT 0 0.
func countDocuments(ctx context.Context, client rueidis.Client, collectionID string) (int64, error) {
	cmd := client.B().Arbitrary("FT.SEARCH").
		Args(indexPrefix+collectionID, "*", "LIMIT", "0", "0").
		Build()
	raw, err := client.Do(ctx, cmd).ToArray()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collectionID, err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	return raw[0].AsInt64()
}

func scanKeys(ctx context.Context, client rueidis.Client, pattern string) ([]string, error) {
	var keys []string
	cursor := uint64(0)
	for {
		cmd := client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		entry, err := client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", pattern, err)
		}
		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			return keys, nil
		}
	}
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
