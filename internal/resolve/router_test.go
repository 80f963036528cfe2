package resolve

import (
	"reflect"
	"testing"

	"github.com/matsen/texbib/internal/citekey"
)

func TestChain(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		format citekey.Format
		want   []Source
	}{
		{"ads policy", PolicyADS, citekey.FormatInspire, []Source{SourceADS, SourceInspire, SourceS2}},
		{"inspire policy", PolicyInspire, citekey.FormatAdsBibcode, []Source{SourceInspire, SourceADS, SourceS2}},
		{"s2 policy", PolicyS2, citekey.FormatArxivNew, []Source{SourceS2, SourceInspire, SourceADS}},
		{"auto bibcode", PolicyAuto, citekey.FormatAdsBibcode, []Source{SourceADS, SourceInspire, SourceS2}},
		{"auto texkey", PolicyAuto, citekey.FormatInspire, []Source{SourceInspire, SourceADS, SourceS2}},
		{"auto arxiv", PolicyAuto, citekey.FormatArxivNew, []Source{SourceInspire, SourceADS, SourceS2}},
		{"auto unrecognized", PolicyAuto, citekey.FormatUnrecognized, []Source{SourceInspire, SourceADS, SourceS2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chain(tt.policy, tt.format)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chain(%q, %v) = %v, want %v", tt.policy, tt.format, got, tt.want)
			}
		})
	}
}

func TestRouteLocalFirst(t *testing.T) {
	r := Router{Policy: PolicyAuto}
	key := citekey.New("LIGOScientific:2016aoc")

	got := r.Route(key, true)
	want := []Source{SourceLocal, SourceInspire, SourceADS, SourceS2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Route(inLocal) = %v, want %v", got, want)
	}

	got = r.Route(key, false)
	want = []Source{SourceInspire, SourceADS, SourceS2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Route(!inLocal) = %v, want %v", got, want)
	}
}

func TestRoutePreferRemote(t *testing.T) {
	r := Router{Policy: PolicyAuto, PreferRemote: true}

	// Recognized keys ignore the local source entirely.
	got := r.Route(citekey.New("LIGOScientific:2016aoc"), true)
	want := []Source{SourceInspire, SourceADS, SourceS2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Route(recognized) = %v, want %v", got, want)
	}

	// Unrecognized keys keep local as the final fallback: no provider
	// can resolve them.
	got = r.Route(citekey.New("my-lab-notes"), true)
	want = []Source{SourceInspire, SourceADS, SourceS2, SourceLocal}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Route(unrecognized) = %v, want %v", got, want)
	}
}
