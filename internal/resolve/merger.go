package resolve

import (
	"sync"

	"github.com/matsen/texbib/internal/bibtex"
)

// EntrySet is the output bibliography under construction: the entries read
// from the existing .bib file plus everything accepted during this run.
// Together with the duplicate tracker it is the only mutable state shared
// across the run, guarded by a single lock.
type EntrySet struct {
	mu      sync.Mutex
	keys    []string // insertion order
	entries map[string]string
	tracker *Tracker
}

// NewEntrySet builds an entry set seeded with the existing bibliography.
func NewEntrySet(existing []bibtex.Entry) *EntrySet {
	s := &EntrySet{
		entries: make(map[string]string, len(existing)),
		tracker: NewTracker(),
	}
	for _, e := range existing {
		if _, ok := s.entries[e.Key]; ok {
			continue
		}
		s.keys = append(s.keys, e.Key)
		s.entries[e.Key] = e.Text
	}
	return s
}

// Contains reports whether an entry exists under key.
func (s *EntrySet) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// insertLocked adds or replaces an entry. Callers hold s.mu.
func (s *EntrySet) insertLocked(key, text string) {
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = text
}

// Entries returns the full bibliography in insertion order.
func (s *EntrySet) Entries() []bibtex.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bibtex.Entry, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, bibtex.Entry{Key: k, Text: s.entries[k]})
	}
	return out
}

// Len returns the number of entries.
func (s *EntrySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Disposition is the merger's decision for one resolved entry.
type Disposition int

const (
	// Accepted: the entry was added to the output set.
	Accepted Disposition = iota
	// SkippedExisting: the target key already exists in the output set.
	SkippedExisting
	// SkippedDuplicate: an earlier key already produced the same paper.
	SkippedDuplicate
)

// StubRecord is a synthesized crossref stub: a minimal entry under the
// original arXiv-ID key pointing at the full entry's key.
type StubRecord struct {
	StubKey   string
	TargetKey string
}

// MergeOutcome describes what the merger did with one resolved entry.
type MergeOutcome struct {
	Disposition Disposition
	// FinalKey is the key the full entry lives under (or would have).
	FinalKey string
	// WinnerKey is set for SkippedDuplicate: the earlier key that won.
	WinnerKey string
	// WinnerNaturalKey is the provider-side key of the winning entry.
	WinnerNaturalKey string
	// Stub is set when a crossref stub was also inserted.
	Stub *StubRecord
}

// Merger decides, per resolved entry, whether to accept it into the entry
// set or skip it, applying the key rewrite and stub rules. Not safe for
// concurrent use; the engine calls it from the ordered merge phase only.
type Merger struct {
	set        *EntrySet
	refresh    bool
	maxAuthors int
	// naturalKeys remembers the provider key of each accepted entry so
	// duplicate reports can name the winner's source record.
	naturalKeys map[string]string
}

// NewMerger builds a merger over the shared entry set. With refresh set,
// existing entries are overwritten instead of skipped. maxAuthors of zero
// disables author-list truncation.
func NewMerger(set *EntrySet, refresh bool, maxAuthors int) *Merger {
	return &Merger{
		set:         set,
		refresh:     refresh,
		maxAuthors:  maxAuthors,
		naturalKeys: make(map[string]string),
	}
}

// Merge applies the disposition rules to one resolved entry.
//
// Key rules: for arXiv-format keys the full entry is stored under the
// provider's natural key and a crossref stub is stored under the original
// arXiv ID. For every other format the .tex-file key wins: the entry's key
// is rewritten to the raw key.
func (m *Merger) Merge(res *ResolvedEntry) MergeOutcome {
	m.set.mu.Lock()
	defer m.set.mu.Unlock()

	isArxiv := res.Key.Format.IsArxiv() && res.Source != SourceLocal

	finalKey := res.Key.Raw
	if isArxiv {
		finalKey = res.NaturalKey
	}

	if !m.refresh {
		if _, exists := m.set.entries[finalKey]; exists {
			out := MergeOutcome{Disposition: SkippedExisting, FinalKey: finalKey}
			// The cited arXiv ID still needs to reach the existing entry.
			if isArxiv && res.Key.Raw != finalKey {
				out.Stub = m.insertStub(res.Key.Raw, finalKey)
			}
			return out
		}
	}

	if winner, dup := m.set.tracker.Observe(finalKey, FingerprintOf(res)); dup {
		out := MergeOutcome{
			Disposition:      SkippedDuplicate,
			FinalKey:         finalKey,
			WinnerKey:        winner,
			WinnerNaturalKey: m.naturalKeys[winner],
		}
		// The original arXiv-ID key must still resolve: point its stub
		// at the winning entry instead.
		if isArxiv && res.Key.Raw != winner {
			out.Stub = m.insertStub(res.Key.Raw, winner)
		}
		return out
	}

	text := res.Entry
	if !isArxiv && res.Source != SourceLocal && res.NaturalKey != finalKey {
		text = bibtex.ReplaceKey(text, finalKey)
	}
	if m.maxAuthors > 0 {
		text = bibtex.TruncateAuthors(text, m.maxAuthors)
	}

	m.set.insertLocked(finalKey, text)
	m.naturalKeys[finalKey] = res.NaturalKey

	out := MergeOutcome{Disposition: Accepted, FinalKey: finalKey}
	if isArxiv && res.Key.Raw != finalKey {
		out.Stub = m.insertStub(res.Key.Raw, finalKey)
	}
	return out
}

// insertStub adds a crossref stub under stubKey unless that key is already
// taken. Callers hold the set lock.
func (m *Merger) insertStub(stubKey, targetKey string) *StubRecord {
	if _, exists := m.set.entries[stubKey]; exists {
		return nil
	}
	m.set.insertLocked(stubKey, bibtex.CrossrefStub(stubKey, targetKey))
	return &StubRecord{StubKey: stubKey, TargetKey: targetKey}
}
