package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for the vector stores
	viper.BindEnv("weaviate.host", "WEAVIATE_HOST")
	viper.BindEnv("weaviate.scheme", "WEAVIATE_SCHEME")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.username", "REDIS_USERNAME")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	// Map environment variables to Viper keys for embedding providers
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("embedding.default_provider", "EMBEDDING_DEFAULT_PROVIDER")
	viper.BindEnv("embedding.default_model", "EMBEDDING_DEFAULT_MODEL")

	// Map environment variables for the server and result persistence
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")
	viper.BindEnv("search.results_dir", "SEARCH_RESULTS_DIR")

	// Set default values for the vector stores
	viper.SetDefault("weaviate.host", "localhost:8080")
	viper.SetDefault("weaviate.scheme", "http")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// Set default values for embedding providers
	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("embedding.default_provider", "ollama")
	viper.SetDefault("embedding.default_model", "nomic-embed-text")

	// Set default values for the server and result persistence
	viper.SetDefault("server.port", "8090")
	viper.SetDefault("server.shutdown_timeout", "5s")
	viper.SetDefault("search.results_dir", "search-results")
}
