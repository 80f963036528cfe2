package resolve

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matsen/texbib/internal/citekey"
)

// DefaultWorkers bounds the fetch phase when the caller does not say
// otherwise.
const DefaultWorkers = 4

// Options configures a resolution run.
type Options struct {
	Policy Policy
	// Workers bounds the number of in-flight provider fetches.
	Workers int
	// Refresh re-fetches keys already present in the entry set.
	Refresh bool
	// PreferRemote consults the local library only for keys no provider
	// understands.
	PreferRemote bool
	// MaxAuthors truncates author lists longer than this; zero disables.
	MaxAuthors int
	// EnforceFormat, when non-nil, rejects the whole run if any key that
	// is not already resolvable locally has a different format.
	EnforceFormat *citekey.Format
	// RequestTimeout bounds each provider attempt.
	RequestTimeout time.Duration
}

// Engine drives a full run: classification, precondition checks,
// the concurrent fetch phase and the ordered merge phase.
type Engine struct {
	resolver *Resolver
	merger   *Merger
	set      *EntrySet
	local    LocalSource
	opts     Options
}

// NewEngine wires the adapters and the entry set into an engine. local
// may be nil when no library is configured.
func NewEngine(adapters []SourceAdapter, set *EntrySet, local LocalSource, opts Options) *Engine {
	if opts.Policy == "" {
		opts.Policy = PolicyAuto
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	router := Router{Policy: opts.Policy, PreferRemote: opts.PreferRemote}
	return &Engine{
		resolver: NewResolver(adapters, router, opts.RequestTimeout),
		merger:   NewMerger(set, opts.Refresh, opts.MaxAuthors),
		set:      set,
		local:    local,
		opts:     opts,
	}
}

// keyState tracks one deduplicated input key through the run.
type keyState struct {
	key      citekey.Key
	inLocal  bool
	existing bool
	entry    *ResolvedEntry
	failure  *KeyFailure
}

// Run resolves rawKeys against the configured sources and merges the
// results into the entry set. Keys are deduplicated syntactically in
// first-appearance order before anything else happens; every list in
// the returned report preserves that order regardless of fetch timing.
//
// A *KeyTypeError is returned before any network traffic when format
// enforcement is requested and a non-local key does not match.
func (e *Engine) Run(ctx context.Context, rawKeys []string) (*Report, error) {
	states := e.classify(rawKeys)

	if e.opts.EnforceFormat != nil {
		var bad []string
		for _, st := range states {
			if st.key.Format != *e.opts.EnforceFormat && !st.inLocal {
				bad = append(bad, st.key.Raw)
			}
		}
		if len(bad) > 0 {
			return nil, &KeyTypeError{Enforced: e.opts.EnforceFormat.String(), Keys: bad}
		}
	}

	// Fetch phase. Each worker owns one key end to end; results land in
	// a slot indexed by input position so the merge phase below never
	// depends on completion order.
	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for i := range states {
		st := &states[i]
		if st.existing {
			continue
		}
		g.Go(func() error {
			st.entry, st.failure = e.resolver.Resolve(ctx, st.key, st.inLocal)
			return nil
		})
	}
	g.Wait()

	// Merge phase, strictly in input order.
	report := &Report{}
	for i := range states {
		st := &states[i]
		switch {
		case st.existing:
			report.Existing = append(report.Existing, st.key.Raw)
		case st.failure != nil:
			report.Failed = append(report.Failed, Failure{
				Key:      st.failure.Key.Raw,
				Reason:   st.failure.LastReason,
				Attempts: st.failure.Attempts,
			})
		default:
			e.mergeOne(report, st.entry)
		}
	}
	return report, nil
}

// classify deduplicates and classifies the raw keys and probes the
// local library for each.
func (e *Engine) classify(rawKeys []string) []keyState {
	seen := make(map[string]struct{}, len(rawKeys))
	states := make([]keyState, 0, len(rawKeys))
	for _, raw := range rawKeys {
		if raw == "" {
			continue
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		st := keyState{key: citekey.New(raw)}
		if e.local != nil {
			if ent, err := e.local.Lookup(raw); err == nil && ent != nil {
				st.inLocal = true
			}
		}
		if !e.opts.Refresh && e.set.Contains(raw) {
			st.existing = true
		}
		states = append(states, st)
	}
	return states
}

func (e *Engine) mergeOne(report *Report, res *ResolvedEntry) {
	outcome := e.merger.Merge(res)
	switch outcome.Disposition {
	case Accepted:
		report.Accepted = append(report.Accepted, AcceptedEntry{
			Key:        outcome.FinalKey,
			Source:     res.Source,
			NaturalKey: res.NaturalKey,
		})
	case SkippedDuplicate:
		report.Duplicates = append(report.Duplicates, Duplicate{
			Key:              res.Key.Raw,
			WinnerKey:        outcome.WinnerKey,
			WinnerNaturalKey: outcome.WinnerNaturalKey,
		})
	case SkippedExisting:
		report.Existing = append(report.Existing, res.Key.Raw)
	}
	if outcome.Stub != nil {
		report.Accepted = append(report.Accepted, AcceptedEntry{
			Key:      outcome.Stub.StubKey,
			Source:   res.Source,
			Crossref: outcome.Stub.TargetKey,
		})
	}
}
