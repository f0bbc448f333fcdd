package embedding

import (
	"context"
	"errors"
	"fmt"

	"docsearch/src/infrastructure/log"
)

// UnknownProvider is the sentinel fingerprint stored by indexers that did
// not record their embedding configuration.
const UnknownProvider = "unknown"

var (
	// ErrUnknownProvider is returned when no client is registered for a
	// provider and no default is configured.
	ErrUnknownProvider = errors.New("unknown embedding provider")
	// ErrEmptyEmbedding is returned when a provider yields no vector.
	ErrEmptyEmbedding = errors.New("empty embedding")
)

// Client generates embeddings for one provider family.
type Client interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

// Service dispatches embed calls to the client registered for a provider.
// A request for the "unknown" provider falls back to the configured
// default pair: the collection was indexed without recording its
// fingerprint, so the best available behavior is to embed with the
// deployment's default model and let scores degrade accordingly.
type Service struct {
	clients         map[string]Client
	defaultProvider string
	defaultModel    string
}

// NewService creates an embedding dispatch service.
func NewService(defaultProvider, defaultModel string) *Service {
	return &Service{
		clients:         make(map[string]Client),
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
	}
}

// Register adds a client for the given provider tag.
func (s *Service) Register(provider string, client Client) {
	s.clients[provider] = client
}

// Embed vectorizes text with the given provider/model pair.
func (s *Service) Embed(ctx context.Context, provider, model, text string) ([]float32, error) {
	if provider == UnknownProvider || provider == "" {
		log.Info("embedding provider not recorded, using default",
			"provider", s.defaultProvider,
			"model", s.defaultModel)
		provider = s.defaultProvider
		model = s.defaultModel
	}
	if model == UnknownProvider || model == "" {
		model = s.defaultModel
	}

	client, ok := s.clients[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	vector, err := client.Embed(ctx, model, text)
	if err != nil {
		return nil, fmt.Errorf("embed with %s/%s: %w", provider, model, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w from %s/%s", ErrEmptyEmbedding, provider, model)
	}

	return vector, nil
}
