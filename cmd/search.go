package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsearch/src/core/search"
)

var (
	searchQuery        string
	searchCollection   string
	searchProvider     string
	searchTopK         int
	searchThreshold    float64
	searchMinWordCount int
	searchSave         bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a single semantic search from the command line",
	Long: `Run one semantic search against a collection and print the canonical
result set as JSON. Useful for checking an index without starting the server.`,
	Run: func(cmd *cobra.Command, args []string) {
		if searchQuery == "" {
			fmt.Println("Error: query is required")
			return
		}
		if searchCollection == "" {
			fmt.Println("Error: collection is required")
			return
		}

		searchService, err := buildSearchService()
		if err != nil {
			fmt.Printf("Error: failed to build search service: %v\n", err)
			os.Exit(1)
		}

		resp, err := searchService.Search(context.Background(), search.Request{
			Query:              searchQuery,
			CollectionID:       searchCollection,
			Provider:           searchProvider,
			TopK:               searchTopK,
			Threshold:          searchThreshold,
			WordCountThreshold: searchMinWordCount,
			SaveResults:        searchSave,
		})
		if err != nil {
			fmt.Printf("Error: search failed: %v\n", err)
			os.Exit(1)
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Printf("Error: failed to encode response: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	settingDefaultConfig()

	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "query text")
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "", "collection id")
	searchCmd.Flags().StringVarP(&searchProvider, "provider", "p", search.ProviderWeaviate, "vector store provider (weaviate or redis)")
	searchCmd.Flags().IntVar(&searchTopK, "top-k", search.DefaultTopK, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", search.DefaultThreshold, "minimum cosine similarity")
	searchCmd.Flags().IntVar(&searchMinWordCount, "min-words", search.DefaultWordCountThreshold, "minimum chunk word count")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "save results to the results directory")
}
