package resolve

import (
	"context"
	"fmt"

	"github.com/matsen/texbib/internal/citekey"
)

// LocalAdapter serves entries from a pre-loaded local collection. Unlike
// the network adapters it resolves any key format, since local keys are
// whatever the user stored.
type LocalAdapter struct {
	src LocalSource
}

// NewLocalAdapter wraps a local collection.
func NewLocalAdapter(src LocalSource) *LocalAdapter {
	return &LocalAdapter{src: src}
}

func (a *LocalAdapter) Source() Source { return SourceLocal }

// Fetch looks the key up in the collection.
func (a *LocalAdapter) Fetch(ctx context.Context, key citekey.Key) (*Result, error) {
	ent, err := a.src.Lookup(key.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: local lookup: %v", ErrTransport, err)
	}
	if ent == nil {
		return nil, ErrNotFound
	}
	return &Result{
		Entry:      ent.Text,
		NaturalKey: ent.Key,
		Eprint:     ent.Eprint,
		DOI:        ent.DOI,
	}, nil
}
