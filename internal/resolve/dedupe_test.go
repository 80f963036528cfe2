package resolve

import (
	"testing"

	"github.com/matsen/texbib/internal/citekey"
)

func TestTrackerObserve(t *testing.T) {
	tr := NewTracker()

	if w, dup := tr.Observe("first", Fingerprint{NaturalKey: "Author:2020abc", Eprint: "2001.00001"}); dup {
		t.Fatalf("first fingerprint reported duplicate of %q", w)
	}

	tests := []struct {
		name string
		fp   Fingerprint
		dup  bool
	}{
		{"same natural key", Fingerprint{NaturalKey: "Author:2020abc"}, true},
		{"same eprint", Fingerprint{Eprint: "2001.00001"}, true},
		{"same eprint, different natural key", Fingerprint{NaturalKey: "Other:2021xy", Eprint: "2001.00001"}, true},
		{"all different", Fingerprint{NaturalKey: "Other:2021xy", Eprint: "2105.99999"}, false},
		{"all empty", Fingerprint{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := cloneTracker(t, tr)
			winner, dup := tr.Observe("second", tt.fp)
			if dup != tt.dup {
				t.Errorf("Observe(%+v) dup = %v, want %v", tt.fp, dup, tt.dup)
			}
			if dup && winner != "first" {
				t.Errorf("winner = %q, want %q", winner, "first")
			}
		})
	}
}

// cloneTracker copies a tracker so table cases cannot poison each other.
func cloneTracker(t *testing.T, src *Tracker) *Tracker {
	t.Helper()
	dst := NewTracker()
	for k, v := range src.byNatural {
		dst.byNatural[k] = v
	}
	for k, v := range src.byEprint {
		dst.byEprint[k] = v
	}
	for k, v := range src.byDOI {
		dst.byDOI[k] = v
	}
	return dst
}

func TestTrackerNormalizedDOI(t *testing.T) {
	tr := NewTracker()

	first := &ResolvedEntry{
		Key:        citekey.New("LIGOScientific:2016aoc"),
		NaturalKey: "LIGOScientific:2016aoc",
		DOI:        "10.1103/PhysRevLett.116.061102",
	}
	if _, dup := tr.Observe("LIGOScientific:2016aoc", FingerprintOf(first)); dup {
		t.Fatal("first entry reported duplicate")
	}

	second := &ResolvedEntry{
		Key:        citekey.New("2016PhRvL.116f1102A"),
		NaturalKey: "2016PhRvL.116f1102A",
		DOI:        "https://doi.org/10.1103/PHYSREVLETT.116.061102",
	}
	winner, dup := tr.Observe("2016PhRvL.116f1102A", FingerprintOf(second))
	if !dup {
		t.Fatal("DOI spelled differently not detected as duplicate")
	}
	if winner != "LIGOScientific:2016aoc" {
		t.Errorf("winner = %q, want first key", winner)
	}
}

func TestTrackerEmptyFieldsNeverMatch(t *testing.T) {
	tr := NewTracker()
	tr.Observe("a", Fingerprint{NaturalKey: "Key:2020aa"})
	if _, dup := tr.Observe("b", Fingerprint{NaturalKey: "Key:2021bb"}); dup {
		t.Error("entries with empty eprint and DOI matched each other")
	}
}
