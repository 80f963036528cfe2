package resolve

import "github.com/matsen/texbib/internal/citekey"

// Chain returns the ordered provider list for a policy and key format.
// It is a pure function of its two inputs: same inputs, same chain.
func Chain(policy Policy, format citekey.Format) []Source {
	switch policy {
	case PolicyADS:
		return []Source{SourceADS, SourceInspire, SourceS2}
	case PolicyInspire:
		return []Source{SourceInspire, SourceADS, SourceS2}
	case PolicyS2:
		return []Source{SourceS2, SourceInspire, SourceADS}
	default: // PolicyAuto
		if format == citekey.FormatAdsBibcode {
			return []Source{SourceADS, SourceInspire, SourceS2}
		}
		return []Source{SourceInspire, SourceADS, SourceS2}
	}
}

// Router produces per-key fallback chains, folding in the local source
// when one is configured.
type Router struct {
	Policy Policy

	// PreferRemote demotes local hits: instead of short-circuiting the
	// chain, the local source becomes the final fallback, and only for
	// unrecognized keys (local-only identifiers have no remote
	// equivalent and must still resolve).
	PreferRemote bool
}

// Route returns the chain for a key. inLocal reports whether the key is
// present in the configured local collection; when no local source is
// configured it is always false.
func (r Router) Route(key citekey.Key, inLocal bool) []Source {
	chain := Chain(r.Policy, key.Format)
	if !inLocal {
		return chain
	}

	if r.PreferRemote {
		if key.Format == citekey.FormatUnrecognized {
			return append(chain, SourceLocal)
		}
		return chain
	}

	return append([]Source{SourceLocal}, chain...)
}
