package resolve

import (
	"context"
	"time"

	"github.com/matsen/texbib/internal/citekey"
)

// DefaultRequestTimeout bounds one adapter attempt. A timeout counts as a
// transport failure and advances the chain like any other failure.
const DefaultRequestTimeout = 45 * time.Second

// Attempt records one provider try for diagnostics.
type Attempt struct {
	Source Source `json:"source"`
	Reason Reason `json:"reason"`
}

// KeyFailure is the terminal failure of one key: every provider in its
// chain was tried and failed.
type KeyFailure struct {
	Key        citekey.Key
	LastReason Reason
	Attempts   []Attempt
}

// Resolver drives a single key through its fallback chain. The chain is
// strictly sequential: a later provider is only contacted after the
// previous one failed, so a success never wastes quota on the rest of the
// chain. Each provider appears at most once per key.
type Resolver struct {
	adapters map[Source]SourceAdapter
	router   Router
	timeout  time.Duration
}

// NewResolver builds a resolver over the given adapters. Chains may name
// sources with no registered adapter (e.g. no local source configured);
// those are skipped.
func NewResolver(adapters []SourceAdapter, router Router, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	byName := make(map[Source]SourceAdapter, len(adapters))
	for _, a := range adapters {
		byName[a.Source()] = a
	}
	return &Resolver{adapters: byName, router: router, timeout: timeout}
}

// Resolve runs one key to a terminal state: either a ResolvedEntry or a
// KeyFailure carrying the last failure reason. inLocal reports whether the
// key exists in the configured local collection.
func (r *Resolver) Resolve(ctx context.Context, key citekey.Key, inLocal bool) (*ResolvedEntry, *KeyFailure) {
	chain := r.router.Route(key, inLocal)

	failure := &KeyFailure{Key: key, LastReason: ReasonNotFound}
	for _, src := range chain {
		adapter, ok := r.adapters[src]
		if !ok {
			continue
		}

		result, err := r.attempt(ctx, adapter, key)
		if err != nil {
			reason := ReasonOf(err)
			failure.Attempts = append(failure.Attempts, Attempt{Source: src, Reason: reason})
			failure.LastReason = reason
			continue
		}

		naturalKey := result.NaturalKey
		if naturalKey == "" {
			naturalKey = key.Raw
		}
		return &ResolvedEntry{
			Key:        key,
			Source:     src,
			Entry:      result.Entry,
			NaturalKey: naturalKey,
			Eprint:     result.Eprint,
			DOI:        result.DOI,
		}, nil
	}

	return nil, failure
}

// attempt runs one adapter fetch under the per-request timeout.
func (r *Resolver) attempt(ctx context.Context, adapter SourceAdapter, key citekey.Key) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return adapter.Fetch(attemptCtx, key)
}
