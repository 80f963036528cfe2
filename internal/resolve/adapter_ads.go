package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/matsen/texbib/internal/ads"
	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/inspire"
)

// ADSAdapter resolves keys against the NASA ADS export API. Bibcodes
// export directly; arXiv IDs go through an ADS search first; texkeys
// have no meaning to ADS, so they are cross-referenced through INSPIRE
// metadata to find the record's bibcode or eprint.
type ADSAdapter struct {
	client  *ads.Client
	inspire *inspire.Client
}

// NewADSAdapter wraps an ADS client. inspireClient may be nil, in which
// case texkey cross-referencing is unavailable and such keys fall
// through the chain.
func NewADSAdapter(client *ads.Client, inspireClient *inspire.Client) *ADSAdapter {
	return &ADSAdapter{client: client, inspire: inspireClient}
}

func (a *ADSAdapter) Source() Source { return SourceADS }

// Fetch retrieves the BibTeX entry for key.
func (a *ADSAdapter) Fetch(ctx context.Context, key citekey.Key) (*Result, error) {
	switch key.Format {
	case citekey.FormatAdsBibcode:
		return a.export(ctx, key.Raw, nil)
	case citekey.FormatArxivNew, citekey.FormatArxivOld:
		bibcode, err := a.client.SearchByArxiv(ctx, key.Raw)
		if err != nil {
			return nil, mapADSError(err)
		}
		res, err := a.export(ctx, bibcode, nil)
		if err != nil {
			return nil, err
		}
		if res.Eprint == "" {
			res.Eprint = key.Raw
		}
		return res, nil
	default:
		return a.crossReference(ctx, key)
	}
}

// crossReference resolves a texkey through INSPIRE metadata to an ADS
// bibcode (or failing that an eprint), then exports from ADS.
func (a *ADSAdapter) crossReference(ctx context.Context, key citekey.Key) (*Result, error) {
	if a.inspire == nil {
		return nil, ErrNotFound
	}
	meta, err := a.inspire.FetchMetadata(ctx, inspire.TexkeyQuery(key.Raw))
	if err != nil {
		return nil, mapInspireError(err)
	}

	bibcode := meta.ADSBibcode
	if bibcode == "" && meta.ArxivID != "" {
		bibcode, err = a.client.SearchByArxiv(ctx, meta.ArxivID)
		if err != nil {
			return nil, mapADSError(err)
		}
	}
	if bibcode == "" {
		return nil, ErrNotFound
	}
	return a.export(ctx, bibcode, meta)
}

// export fetches the entry for a bibcode, filling identifier gaps from
// INSPIRE metadata when available.
func (a *ADSAdapter) export(ctx context.Context, bibcode string, meta *inspire.Metadata) (*Result, error) {
	entry, err := a.client.ExportBibTeX(ctx, bibcode)
	if err != nil {
		return nil, mapADSError(err)
	}
	res := resultFromEntry(entry)
	if meta != nil {
		if res.Eprint == "" {
			res.Eprint = meta.ArxivID
		}
		if res.DOI == "" {
			res.DOI = meta.DOI
		}
	}
	return res, nil
}

// mapADSError translates client errors into the resolver taxonomy.
func mapADSError(err error) error {
	switch {
	case errors.Is(err, ads.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ads.ErrAuthRequired):
		return ErrAuthRequired
	case errors.Is(err, ads.ErrRateLimited):
		return ErrRateLimited
	case errors.Is(err, ads.ErrInvalidResponse):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
}
