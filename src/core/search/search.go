package search

import (
	"context"
	"fmt"

	"docsearch/src/infrastructure/log"
)

// Service is the public entry point for semantic search across the
// registered vector store backends.
type Service struct {
	backends map[string]Backend
	embedder Embedder
	writer   ResultWriter
}

// NewService creates a search service over the given backends. The writer
// may be nil when result persistence is not configured.
func NewService(backends map[string]Backend, embedder Embedder, writer ResultWriter) *Service {
	return &Service{
		backends: backends,
		embedder: embedder,
		writer:   writer,
	}
}

// ListProviders returns the supported vector store backends.
func (s *Service) ListProviders() []Provider {
	return []Provider{
		{ID: ProviderWeaviate, Name: "Weaviate"},
		{ID: ProviderRedis, Name: "Redis"},
	}
}

// ListCollections enumerates the collections of one backend.
func (s *Service) ListCollections(ctx context.Context, provider string) ([]CollectionInfo, error) {
	backend, ok := s.backends[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	return backend.ListCollections(ctx)
}

// Search runs a single semantic search call: resolve the collection's
// embedding configuration, embed the query with it, run the backend's
// nearest-neighbor search and filter the canonical hits by threshold.
// When the request asks for it, the final result set is handed to the
// result writer; a write failure is reported in the response instead of
// failing the search.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	req = req.withDefaults()

	backend, ok := s.backends[req.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, req.Provider)
	}

	log.Info("search request",
		"provider", req.Provider,
		"collection", req.CollectionID,
		"query", req.Query)

	embCfg, err := backend.ResolveEmbedding(ctx, req.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve embedding config: %w", err)
	}
	log.Info("resolved embedding config",
		"provider", embCfg.Provider,
		"model", embCfg.Model)

	vector, err := s.embedder.Embed(ctx, embCfg.Provider, embCfg.Model, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := backend.VectorSearch(ctx, req.CollectionID, vector, req.TopK, req.WordCountThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", req.Provider, err)
	}

	resp := &Response{
		Results: normalizeAndFilter(hits, req.Threshold),
	}

	if req.SaveResults && len(resp.Results) > 0 && s.writer != nil {
		path, err := s.writer.Save(ctx, req.Query, req.CollectionID, resp.Results)
		if err != nil {
			log.Error(err, "failed to save search results")
			resp.SaveError = err.Error()
		} else {
			resp.SavedPath = path
		}
	}

	return resp, nil
}
