package main

import (
	"os"
	"path/filepath"

	"github.com/matsen/texbib/internal/ads"
	"github.com/matsen/texbib/internal/config"
	"github.com/matsen/texbib/internal/inspire"
	"github.com/matsen/texbib/internal/library"
	"github.com/matsen/texbib/internal/resolve"
	"github.com/matsen/texbib/internal/s2"
)

// mustLoadConfig loads the global config, exiting on parse errors.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// libraryPath returns the local collection path: the configured one, or the
// XDG data directory default.
func libraryPath(cfg *config.Config) string {
	if cfg.LibraryPath != "" {
		return cfg.LibraryPath
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "texbib", "library.db")
}

// librarySource adapts the SQLite collection to the resolver's local source.
type librarySource struct {
	db *library.DB
}

func (s librarySource) Lookup(key string) (*resolve.LocalEntry, error) {
	e, err := s.db.Lookup(key)
	if err != nil || e == nil {
		return nil, err
	}
	return &resolve.LocalEntry{Key: e.Key, Text: e.Text, Eprint: e.Eprint, DOI: e.DOI}, nil
}

// newAdapters builds the provider adapters, plus the local source when a
// library database exists. The returned cleanup closes the database.
func newAdapters(cfg *config.Config) ([]resolve.SourceAdapter, resolve.LocalSource, func()) {
	insp := inspire.NewClient()
	adapters := []resolve.SourceAdapter{
		resolve.NewInspireAdapter(insp),
		resolve.NewADSAdapter(ads.NewClient(ads.WithToken(cfg.ADSKey())), insp),
		resolve.NewS2Adapter(s2.NewClient(s2.WithAPIKey(cfg.S2Key()))),
	}

	path := libraryPath(cfg)
	if path == "" {
		return adapters, nil, func() {}
	}
	if _, err := os.Stat(path); err != nil {
		return adapters, nil, func() {}
	}
	db, err := library.Open(path)
	if err != nil {
		// A broken library must not block network resolution.
		return adapters, nil, func() {}
	}
	src := librarySource{db: db}
	adapters = append(adapters, resolve.NewLocalAdapter(src))
	return adapters, src, func() { db.Close() }
}

// mustOpenLibrary opens (creating if needed) the local collection.
func mustOpenLibrary(cfg *config.Config) (*library.DB, string) {
	path := libraryPath(cfg)
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine library path; set library_path in config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "creating library directory: %v", err)
	}
	db, err := library.Open(path)
	if err != nil {
		exitWithError(ExitError, "opening library: %v", err)
	}
	return db, path
}
