package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/texbib/internal/bibtex"
	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/resolve"
	"github.com/matsen/texbib/internal/texscan"
)

var (
	fetchBib          string
	fetchSource       string
	fetchMaxAuthors   int
	fetchRefresh      bool
	fetchKeyType      string
	fetchConcurrency  int
	fetchPreferRemote bool
	fetchExpandMacros string
	fetchDryRun       bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchBib, "bib", "references.bib", "Bibliography file to read and update")
	fetchCmd.Flags().StringVar(&fetchSource, "source", "", "Preferred provider: ads, inspire, s2, auto (default from config)")
	fetchCmd.Flags().IntVar(&fetchMaxAuthors, "max-authors", 0, "Truncate author lists longer than N with 'others' (0 disables)")
	fetchCmd.Flags().BoolVar(&fetchRefresh, "refresh", false, "Re-fetch keys already present in the bibliography")
	fetchCmd.Flags().StringVar(&fetchKeyType, "key-type", "", "Require every key to have this format: inspire or ads")
	fetchCmd.Flags().IntVar(&fetchConcurrency, "concurrency", 0, "Concurrent provider fetches (default from config)")
	fetchCmd.Flags().BoolVar(&fetchPreferRemote, "prefer-remote", false, "Consult the local library only for keys no provider understands")
	fetchCmd.Flags().StringVar(&fetchExpandMacros, "expand-macros", "", "Expand AAS journal macros using this .sty file")
	fetchCmd.Flags().BoolVar(&fetchDryRun, "dry-run", false, "Report what would change without writing the bibliography")
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [tex files...]",
	Short: "Resolve cited keys and merge their entries into the bibliography",
	Long: `Scan .tex files for \cite commands, resolve every cited key through the
provider fallback chain, and merge the entries into the bibliography file.

Keys already present in the bibliography are skipped (unless --refresh).
Keys citing the same paper under different identifiers are collapsed onto
the first-appearing key. arXiv-ID keys store the full entry under the
paper's own texkey plus a crossref stub under the arXiv ID, so both keys
resolve in LaTeX.

Examples:
  texbib fetch paper.tex
  texbib fetch --bib refs.bib --source inspire paper.tex appendix.tex
  texbib fetch --key-type inspire --max-authors 5 paper.tex
  texbib fetch --dry-run --human paper.tex`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

// FetchResponse is the JSON output of the fetch command.
type FetchResponse struct {
	Bib     string          `json:"bib"`
	Scanned int             `json:"scanned_keys"`
	Written bool            `json:"written"`
	Report  *resolve.Report `json:"report"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	scan, err := texscan.ScanFiles(args)
	if err != nil {
		exitWithError(ExitError, "scanning tex files: %v", err)
	}
	for _, w := range scan.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	source := fetchSource
	if source == "" {
		source = cfg.Source()
	}
	policy, err := resolve.ParsePolicy(source)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	var enforce *citekey.Format
	if fetchKeyType != "" {
		format, err := citekey.ParseFormat(fetchKeyType)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		enforce = &format
	}

	var macros map[string]string
	if fetchExpandMacros != "" {
		sty, err := os.ReadFile(fetchExpandMacros)
		if err != nil {
			exitWithError(ExitError, "reading macro file: %v", err)
		}
		macros = bibtex.ParseAASMacros(string(sty))
	}

	existing, err := bibtex.ReadFile(fetchBib)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", fetchBib, err)
	}
	set := resolve.NewEntrySet(existing)

	adapters, local, cleanup := newAdapters(cfg)
	defer cleanup()

	maxAuthors := fetchMaxAuthors
	if !cmd.Flags().Changed("max-authors") {
		maxAuthors = cfg.MaxAuthors
	}
	workers := fetchConcurrency
	if workers <= 0 {
		workers = cfg.Workers()
	}

	eng := resolve.NewEngine(adapters, set, local, resolve.Options{
		Policy:        policy,
		Workers:       workers,
		Refresh:       fetchRefresh,
		PreferRemote:  fetchPreferRemote,
		MaxAuthors:    maxAuthors,
		EnforceFormat: enforce,
	})

	report, err := eng.Run(cmd.Context(), scan.Keys)
	if err != nil {
		var kte *resolve.KeyTypeError
		if errors.As(err, &kte) {
			exitWithError(ExitKeyType, "%v", kte)
		}
		exitWithError(ExitError, "%v", err)
	}

	written := false
	if !fetchDryRun && len(report.Accepted) > 0 {
		entries := set.Entries()
		if macros != nil {
			for i := range entries {
				entries[i].Text = bibtex.ExpandMacros(entries[i].Text, macros)
			}
		}
		if err := bibtex.WriteFile(fetchBib, entries); err != nil {
			exitWithError(ExitError, "writing %s: %v", fetchBib, err)
		}
		written = true
	}

	if humanOutput {
		printFetchHuman(report, len(scan.Keys), written)
	} else {
		outputJSON(FetchResponse{
			Bib:     fetchBib,
			Scanned: len(scan.Keys),
			Written: written,
			Report:  report,
		})
	}

	if !report.OK() {
		os.Exit(ExitExhausted)
	}
	return nil
}

func printFetchHuman(report *resolve.Report, scanned int, written bool) {
	for _, a := range report.Accepted {
		if a.Crossref != "" {
			addedColor.Printf("added %s (stub -> %s)\n", a.Key, a.Crossref)
			continue
		}
		addedColor.Printf("added %s (%s)\n", a.Key, a.Source)
	}
	for _, d := range report.Duplicates {
		skippedColor.Printf("skipped %s: same paper as %s\n", d.Key, d.WinnerKey)
	}
	for _, f := range report.Failed {
		failedColor.Printf("failed %s: %s\n", f.Key, f.Reason)
	}

	fmt.Printf("\n%d cited, %d added, %d already present, %d failed\n",
		scanned, len(report.Accepted), len(report.Existing), len(report.Failed))
	if n := len(report.Duplicates); n > 0 {
		fmt.Printf("%d key(s) skipped because they refer to the same paper as an earlier key\n", n)
	}
	if written {
		fmt.Println("bibliography updated")
	}
}
