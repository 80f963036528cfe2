package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/s2"
)

// S2Adapter resolves arXiv-format keys against the Semantic Scholar
// Graph API. Other key formats have no S2 lookup and fall through the
// chain immediately.
type S2Adapter struct {
	client *s2.Client
}

// NewS2Adapter wraps a Semantic Scholar client.
func NewS2Adapter(client *s2.Client) *S2Adapter {
	return &S2Adapter{client: client}
}

func (a *S2Adapter) Source() Source { return SourceS2 }

// Fetch retrieves the BibTeX entry for an arXiv key.
func (a *S2Adapter) Fetch(ctx context.Context, key citekey.Key) (*Result, error) {
	if !key.Format.IsArxiv() {
		return nil, ErrNotFound
	}

	paper, err := a.client.GetPaper(ctx, "ARXIV:"+key.Raw)
	if err != nil {
		return nil, mapS2Error(err)
	}
	entry := paper.CitationStyles.BibTeX
	if entry == "" {
		return nil, fmt.Errorf("%w: no citation entry for paper %s", ErrMalformed, paper.PaperID)
	}

	res := resultFromEntry(entry)
	if res.Eprint == "" {
		res.Eprint = paper.ExternalIDs.ArXiv
	}
	if res.Eprint == "" {
		res.Eprint = key.Raw
	}
	if res.DOI == "" {
		res.DOI = paper.ExternalIDs.DOI
	}
	return res, nil
}

// mapS2Error translates client errors into the resolver taxonomy.
func mapS2Error(err error) error {
	switch {
	case errors.Is(err, s2.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, s2.ErrAuthRequired):
		return ErrAuthRequired
	case errors.Is(err, s2.ErrRateLimited):
		return ErrRateLimited
	case errors.Is(err, s2.ErrInvalidResponse):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
}
