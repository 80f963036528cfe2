package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/texscan"
)

func init() {
	rootCmd.AddCommand(keysCmd)
}

var keysCmd = &cobra.Command{
	Use:   "keys [tex files...]",
	Short: "List and classify the keys cited in tex files",
	Long: `Scan .tex files for \cite commands and print every cited key with its
classified format, in first-appearance order. No network traffic.

Examples:
  texbib keys paper.tex
  texbib keys --human paper.tex appendix.tex`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKeys,
}

// ClassifiedKey is one scanned key with its format.
type ClassifiedKey struct {
	Key    string `json:"key"`
	Format string `json:"format"`
}

func runKeys(cmd *cobra.Command, args []string) error {
	scan, err := texscan.ScanFiles(args)
	if err != nil {
		exitWithError(ExitError, "scanning tex files: %v", err)
	}
	for _, w := range scan.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	keys := make([]ClassifiedKey, 0, len(scan.Keys))
	for _, raw := range scan.Keys {
		keys = append(keys, ClassifiedKey{Key: raw, Format: citekey.Classify(raw).String()})
	}

	if humanOutput {
		for _, k := range keys {
			fmt.Printf("%-14s %s\n", k.Format, k.Key)
		}
		fmt.Printf("\n%d key(s)\n", len(keys))
		return nil
	}
	return outputJSON(keys)
}
