package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "polyglot",
	Short: "Multi-tool AI assistant with presentation translation",
	Long: `polyglot is a conversational assistant that dispatches to tools for
weather lookups, read-only SQL queries, knowledge base retrieval and
format-preserving PowerPoint translation.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(loadEnv)
	rootCmd.AddCommand(serveCmd, chatCmd, translateCmd, ingestCmd)
}

// loadEnv reads a .env file when present; real environment variables win.
func loadEnv() {
	_ = godotenv.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
