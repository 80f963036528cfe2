package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/texbib/internal/bibtex"
	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/library"
	"github.com/matsen/texbib/internal/pdf"
	"github.com/matsen/texbib/internal/resolve"
	"github.com/matsen/texbib/internal/s2"
)

var (
	libraryAddSource string
	libraryAddPDFKey string
)

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryInitCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryAddPDFCmd)
	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryInfoCmd)

	libraryAddCmd.Flags().StringVar(&libraryAddSource, "source", "", "Preferred provider: ads, inspire, s2, auto (default from config)")
	libraryAddPDFCmd.Flags().StringVar(&libraryAddPDFKey, "key", "", "Store the entry under this key instead of the entry's own")
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local entry collection",
	Long: `Manage the local SQLite collection of bibliography entries.

Entries stored here resolve without network traffic, and keys no provider
understands (lab notes, theses, private reports) resolve only from here.`,
}

var libraryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the library database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		db, path := mustOpenLibrary(cfg)
		defer db.Close()

		if humanOutput {
			fmt.Printf("library ready at %s\n", path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok", Path: path})
	},
}

// LibraryAddResponse is the JSON output of library add and add-pdf.
type LibraryAddResponse struct {
	Key    string `json:"key"`
	Source string `json:"source,omitempty"`
	Eprint string `json:"eprint,omitempty"`
	DOI    string `json:"doi,omitempty"`
}

var libraryAddCmd = &cobra.Command{
	Use:   "add KEY",
	Short: "Fetch a key from the providers and store its entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		source := libraryAddSource
		if source == "" {
			source = cfg.Source()
		}
		policy, err := resolve.ParsePolicy(source)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		adapters, _, cleanup := newAdapters(cfg)
		defer cleanup()

		key := citekey.New(args[0])
		resolver := resolve.NewResolver(adapters, resolve.Router{Policy: policy}, 0)
		res, failure := resolver.Resolve(cmd.Context(), key, false)
		if failure != nil {
			exitWithError(ExitExhausted, "could not resolve %s: %s", key.Raw, failure.LastReason)
		}

		db, _ := mustOpenLibrary(cfg)
		defer db.Close()
		entry := library.Entry{Key: key.Raw, Text: res.Entry, Eprint: res.Eprint, DOI: res.DOI}
		if err := db.Put(entry); err != nil {
			exitWithError(ExitError, "storing entry: %v", err)
		}

		if humanOutput {
			fmt.Printf("stored %s (%s)\n", key.Raw, res.Source)
			return nil
		}
		return outputJSON(LibraryAddResponse{
			Key:    key.Raw,
			Source: string(res.Source),
			Eprint: res.Eprint,
			DOI:    res.DOI,
		})
	},
}

var libraryAddPDFCmd = &cobra.Command{
	Use:   "add-pdf FILE",
	Short: "Extract the DOI from a PDF and store the paper's entry",
	Long: `Scan the first pages of a PDF for a DOI, fetch the paper's BibTeX entry
through the Semantic Scholar Graph API, and store it in the library.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		doi, err := pdf.ExtractDOI(args[0])
		if err != nil {
			exitWithError(ExitError, "extracting DOI from %s: %v", args[0], err)
		}
		if doi == "" {
			exitWithError(ExitError, "no DOI found in %s", args[0])
		}

		client := s2.NewClient(s2.WithAPIKey(cfg.S2Key()))
		paper, err := client.GetPaper(cmd.Context(), "DOI:"+doi)
		if err != nil {
			exitWithError(ExitError, "fetching entry for %s: %v", doi, err)
		}
		entry := paper.CitationStyles.BibTeX
		if entry == "" {
			exitWithError(ExitError, "no citation entry available for %s", doi)
		}

		key := libraryAddPDFKey
		if key == "" {
			key = bibtex.ExtractKey(entry)
		}
		if key == "" {
			exitWithError(ExitError, "entry for %s has no key; pass --key", doi)
		}
		if libraryAddPDFKey != "" {
			entry = bibtex.ReplaceKey(entry, key)
		}

		db, _ := mustOpenLibrary(cfg)
		defer db.Close()
		rec := library.Entry{Key: key, Text: entry, Eprint: paper.ExternalIDs.ArXiv, DOI: doi}
		if err := db.Put(rec); err != nil {
			exitWithError(ExitError, "storing entry: %v", err)
		}

		if humanOutput {
			fmt.Printf("stored %s (doi %s)\n", key, doi)
			return nil
		}
		return outputJSON(LibraryAddResponse{Key: key, Eprint: rec.Eprint, DOI: doi})
	},
}

// LibraryImportResponse is the JSON output of library import.
type LibraryImportResponse struct {
	Imported int `json:"imported"`
}

var libraryImportCmd = &cobra.Command{
	Use:   "import FILE.bib",
	Short: "Import every entry of a .bib file into the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()

		entries, err := bibtex.ReadFile(args[0])
		if err != nil {
			exitWithError(ExitError, "reading %s: %v", args[0], err)
		}
		if len(entries) == 0 {
			exitWithError(ExitError, "no entries found in %s", args[0])
		}

		db, _ := mustOpenLibrary(cfg)
		defer db.Close()

		imported := 0
		for _, e := range entries {
			fields := bibtex.ExtractFields(e.Text, "eprint", "doi")
			rec := library.Entry{Key: e.Key, Text: e.Text, Eprint: fields["eprint"], DOI: fields["doi"]}
			if err := db.Put(rec); err != nil {
				exitWithError(ExitError, "storing %s: %v", e.Key, err)
			}
			imported++
		}

		if humanOutput {
			fmt.Printf("imported %d entr(ies)\n", imported)
			return nil
		}
		return outputJSON(LibraryImportResponse{Imported: imported})
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		db, _ := mustOpenLibrary(cfg)
		defer db.Close()

		entries, err := db.List()
		if err != nil {
			exitWithError(ExitError, "listing entries: %v", err)
		}

		if humanOutput {
			for _, e := range entries {
				line := e.Key
				if e.Eprint != "" {
					line += "  [" + e.Eprint + "]"
				}
				fmt.Println(line)
			}
			fmt.Printf("\n%d entr(ies)\n", len(entries))
			return nil
		}
		return outputJSON(entries)
	},
}

// LibraryInfoResponse is the JSON output of library info.
type LibraryInfoResponse struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

var libraryInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the library path and entry count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		db, path := mustOpenLibrary(cfg)
		defer db.Close()

		count, err := db.Count()
		if err != nil {
			exitWithError(ExitError, "counting entries: %v", err)
		}

		if humanOutput {
			fmt.Printf("path:    %s\n", path)
			fmt.Printf("entries: %d\n", count)
			return nil
		}
		return outputJSON(LibraryInfoResponse{Path: path, Entries: count})
	},
}
