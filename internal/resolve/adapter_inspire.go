package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/matsen/texbib/internal/bibtex"
	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/inspire"
)

// InspireAdapter resolves keys against the INSPIRE literature API. It
// understands every key format: texkeys directly, arXiv IDs and ADS
// bibcodes through INSPIRE's identifier search.
type InspireAdapter struct {
	client *inspire.Client
}

// NewInspireAdapter wraps an INSPIRE client.
func NewInspireAdapter(client *inspire.Client) *InspireAdapter {
	return &InspireAdapter{client: client}
}

func (a *InspireAdapter) Source() Source { return SourceInspire }

// Fetch retrieves the BibTeX entry for key.
func (a *InspireAdapter) Fetch(ctx context.Context, key citekey.Key) (*Result, error) {
	entry, err := a.client.FetchBibTeX(ctx, inspireQuery(key))
	if err != nil {
		return nil, mapInspireError(err)
	}
	return resultFromEntry(entry), nil
}

// inspireQuery builds the search query matching the key's format.
func inspireQuery(key citekey.Key) string {
	switch key.Format {
	case citekey.FormatArxivNew, citekey.FormatArxivOld:
		return inspire.ArxivQuery(key.Raw)
	case citekey.FormatAdsBibcode:
		return inspire.BibcodeQuery(key.Raw)
	default:
		return inspire.TexkeyQuery(key.Raw)
	}
}

// mapInspireError translates client errors into the resolver taxonomy.
func mapInspireError(err error) error {
	switch {
	case errors.Is(err, inspire.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, inspire.ErrRateLimited):
		return ErrRateLimited
	case errors.Is(err, inspire.ErrInvalidResponse):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
}

// resultFromEntry derives duplicate-detection identifiers from a fetched
// BibTeX entry.
func resultFromEntry(entry string) *Result {
	fields := bibtex.ExtractFields(entry, "eprint", "doi")
	return &Result{
		Entry:      entry,
		NaturalKey: bibtex.ExtractKey(entry),
		Eprint:     fields["eprint"],
		DOI:        fields["doi"],
	}
}
