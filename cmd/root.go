package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Semantic search over document collections in vector stores",
	Long: `docsearch runs semantic searches against document collections stored
in Weaviate or Redis and normalizes both backends into one result format.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
