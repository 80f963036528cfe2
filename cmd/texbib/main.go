// Package main provides the texbib CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "texbib",
	Short: "Resolve LaTeX citation keys into a BibTeX bibliography",
	Long: `texbib builds and maintains a .bib file from the keys actually cited
in your LaTeX sources.

Cited keys are classified by format (INSPIRE texkey, ADS bibcode, arXiv ID)
and resolved through a provider fallback chain (INSPIRE, NASA ADS, Semantic
Scholar, plus an optional local collection). Entries citing the same paper
under different identifiers are detected and collapsed; arXiv-ID citations
get a crossref stub pointing at the paper's natural key.

All commands output JSON by default for scripting; use --human for
terminal-friendly output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// API keys may live in a .env file next to the project.
	godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
