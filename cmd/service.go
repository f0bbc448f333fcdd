package cmd

import (
	"net/http"
	"time"

	"github.com/spf13/viper"

	"docsearch/src/core/embedding"
	"docsearch/src/core/search"
	"docsearch/src/fsutil"
	"docsearch/src/infrastructure/integrations/ollama"
	"docsearch/src/infrastructure/integrations/openai"
	"docsearch/src/storage/redisvec"
	"docsearch/src/storage/resultlog"
	"docsearch/src/storage/weaviate"
)

// buildSearchService wires the search service from viper configuration.
// Shared by the serve and search commands.
func buildSearchService() (*search.Service, error) {
	// Embedding providers
	embedder := embedding.NewService(
		viper.GetString("embedding.default_provider"),
		viper.GetString("embedding.default_model"),
	)
	embedder.Register("ollama", ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 30 * time.Second,
	}))
	embedder.Register("openai", openai.NewClient(openai.Config{
		APIKey:  viper.GetString("openai.api_key"),
		BaseURL: viper.GetString("openai.base_url"),
	}))

	// Vector store backends
	backends := map[string]search.Backend{
		search.ProviderWeaviate: weaviate.NewStore(weaviate.Config{
			Host:   viper.GetString("weaviate.host"),
			Scheme: viper.GetString("weaviate.scheme"),
		}),
		search.ProviderRedis: redisvec.NewStore(redisvec.Config{
			Addr:     viper.GetString("redis.addr"),
			Username: viper.GetString("redis.username"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		}),
	}

	// Result persistence
	writer, err := resultlog.NewWriter(viper.GetString("search.results_dir"), fsutil.NewLocalFileStore())
	if err != nil {
		return nil, err
	}

	return search.NewService(backends, embedder, writer), nil
}
