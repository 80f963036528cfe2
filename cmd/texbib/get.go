package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/resolve"
)

var getSource string

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVar(&getSource, "source", "", "Preferred provider: ads, inspire, s2, auto (default from config)")
}

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Resolve a single citation key and print its entry",
	Long: `Resolve one key through the provider fallback chain and print the BibTeX
entry without touching any bibliography file.

Examples:
  texbib get LIGOScientific:2016aoc
  texbib get --source ads 2016PhRvL.116f1102A
  texbib get --human 2508.18080`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// GetResponse is the JSON output of the get command.
type GetResponse struct {
	Key        string `json:"key"`
	Format     string `json:"format"`
	Source     string `json:"source"`
	NaturalKey string `json:"natural_key,omitempty"`
	Entry      string `json:"entry"`
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	source := getSource
	if source == "" {
		source = cfg.Source()
	}
	policy, err := resolve.ParsePolicy(source)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	adapters, local, cleanup := newAdapters(cfg)
	defer cleanup()

	key := citekey.New(args[0])
	inLocal := false
	if local != nil {
		if e, err := local.Lookup(key.Raw); err == nil && e != nil {
			inLocal = true
		}
	}

	resolver := resolve.NewResolver(adapters, resolve.Router{Policy: policy}, 0)
	res, failure := resolver.Resolve(cmd.Context(), key, inLocal)
	if failure != nil {
		exitWithError(ExitExhausted, "could not resolve %s: %s", key.Raw, failure.LastReason)
	}

	if humanOutput {
		fmt.Println(res.Entry)
		return nil
	}
	return outputJSON(GetResponse{
		Key:        key.Raw,
		Format:     key.Format.String(),
		Source:     string(res.Source),
		NaturalKey: res.NaturalKey,
		Entry:      res.Entry,
	})
}
