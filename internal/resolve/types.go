// Package resolve implements the citation resolution engine: routing keys
// through an ordered provider fallback chain, detecting duplicates across
// heterogeneous identifiers, and merging resolved entries into the output
// bibliography.
package resolve

import (
	"context"
	"fmt"

	"github.com/matsen/texbib/internal/citekey"
)

// Source names a bibliographic provider.
type Source string

const (
	SourceInspire Source = "inspire"
	SourceADS     Source = "ads"
	SourceS2      Source = "s2"
	// SourceLocal is the pseudo-provider backed by the local entry
	// collection rather than the network.
	SourceLocal Source = "local"
)

// Policy selects which provider is preferred when building fallback chains.
type Policy string

const (
	PolicyADS     Policy = "ads"
	PolicyInspire Policy = "inspire"
	PolicyS2      Policy = "s2"
	// PolicyAuto picks the provider matching the key's format.
	PolicyAuto Policy = "auto"
)

// ParsePolicy parses a --source flag value.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyADS, PolicyInspire, PolicyS2, PolicyAuto:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown source %q (valid: ads, inspire, s2, auto)", s)
	}
}

// Result is a successful fetch from one provider: the raw BibTeX entry text
// plus the identifiers used for duplicate detection. NaturalKey is the
// citation key the provider's own record uses, which may differ from the
// key found in the .tex file.
type Result struct {
	Entry      string
	NaturalKey string
	Eprint     string
	DOI        string
}

// SourceAdapter is the capability interface implemented once per provider.
// Fetch returns the entry for a classified key or one of the taxonomy
// errors (ErrNotFound, ErrRateLimited, ErrAuthRequired, ErrTransport,
// ErrMalformed, possibly wrapped).
type SourceAdapter interface {
	Source() Source
	Fetch(ctx context.Context, key citekey.Key) (*Result, error)
}

// ResolvedEntry is the outcome of a successful resolver run for one key.
// It is consumed exactly once by the merger.
type ResolvedEntry struct {
	Key        citekey.Key
	Source     Source
	Entry      string
	NaturalKey string
	Eprint     string
	DOI        string
}

// LocalEntry is one entry of a pre-supplied local collection.
type LocalEntry struct {
	Key    string
	Text   string
	Eprint string
	DOI    string
}

// LocalSource is a synchronous lookup against a pre-loaded entry collection
// keyed by arbitrary strings. Lookup returns nil (not an error) when the
// key is absent.
type LocalSource interface {
	Lookup(key string) (*LocalEntry, error)
}

// MapLocalSource is a LocalSource backed by an in-memory map.
type MapLocalSource map[string]LocalEntry

// Lookup implements LocalSource.
func (m MapLocalSource) Lookup(key string) (*LocalEntry, error) {
	if e, ok := m[key]; ok {
		return &e, nil
	}
	return nil, nil
}
