package resolve

import "github.com/matsen/texbib/internal/bibtex"

// Fingerprint is the identity signature of a resolved entry: the provider's
// natural key, the arXiv eprint, and the DOI, each possibly empty. Two
// entries denote the same paper if their fingerprints agree on any single
// non-empty field.
type Fingerprint struct {
	NaturalKey string
	Eprint     string
	DOI        string // normalized, case-insensitive
}

// FingerprintOf derives the fingerprint of a resolved entry.
func FingerprintOf(e *ResolvedEntry) Fingerprint {
	return Fingerprint{
		NaturalKey: e.NaturalKey,
		Eprint:     e.Eprint,
		DOI:        bibtex.NormalizeDOI(e.DOI),
	}
}

// Tracker accumulates fingerprints of accepted entries for the duration of
// one run and classifies each new entry as novel or a duplicate of an
// earlier one. It is not safe for concurrent use; callers serialize access
// (the engine observes entries in input order).
type Tracker struct {
	byNatural map[string]string // natural key -> first accepted key
	byEprint  map[string]string
	byDOI     map[string]string
}

// NewTracker returns an empty tracker. Fingerprints never persist across
// runs; only the final entries do.
func NewTracker() *Tracker {
	return &Tracker{
		byNatural: make(map[string]string),
		byEprint:  make(map[string]string),
		byDOI:     make(map[string]string),
	}
}

// Observe classifies the entry registered under key. If any non-empty
// fingerprint field was already seen, it returns the first key that
// produced it and dup=true, and registers nothing. Otherwise the
// fingerprint is registered under key.
func (t *Tracker) Observe(key string, fp Fingerprint) (winner string, dup bool) {
	if fp.NaturalKey != "" {
		if w, ok := t.byNatural[fp.NaturalKey]; ok {
			return w, true
		}
	}
	if fp.Eprint != "" {
		if w, ok := t.byEprint[fp.Eprint]; ok {
			return w, true
		}
	}
	if fp.DOI != "" {
		if w, ok := t.byDOI[fp.DOI]; ok {
			return w, true
		}
	}

	if fp.NaturalKey != "" {
		t.byNatural[fp.NaturalKey] = key
	}
	if fp.Eprint != "" {
		t.byEprint[fp.Eprint] = key
	}
	if fp.DOI != "" {
		t.byDOI[fp.DOI] = key
	}
	return "", false
}
