package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matsen/texbib/internal/ads"
	"github.com/matsen/texbib/internal/citekey"
	"github.com/matsen/texbib/internal/inspire"
	"github.com/matsen/texbib/internal/s2"
)

func TestInspireQueryByFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"LIGOScientific:2016aoc", "texkeys:LIGOScientific:2016aoc"},
		{"2508.18080", "arxiv:2508.18080"},
		{"hep-ph/9905318", "arxiv:hep-ph/9905318"},
		{"2016PhRvL.116f1102A", "external_system_identifiers.value:2016PhRvL.116f1102A"},
		{"my-lab-notes", "texkeys:my-lab-notes"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := inspireQuery(citekey.New(tt.raw)); got != tt.want {
				t.Errorf("inspireQuery(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResultFromEntry(t *testing.T) {
	entry := "@article{LIGOScientific:2016aoc,\n" +
		"  eprint = {1602.03837},\n" +
		"  doi = \"10.1103/PhysRevLett.116.061102\",\n" +
		"  title = {Observation of Gravitational Waves}\n}"

	res := resultFromEntry(entry)
	if res.NaturalKey != "LIGOScientific:2016aoc" {
		t.Errorf("natural key = %q", res.NaturalKey)
	}
	if res.Eprint != "1602.03837" {
		t.Errorf("eprint = %q", res.Eprint)
	}
	if res.DOI != "10.1103/PhysRevLett.116.061102" {
		t.Errorf("doi = %q", res.DOI)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"inspire not found", mapInspireError(inspire.ErrNotFound), ErrNotFound},
		{"inspire rate limited", mapInspireError(fmt.Errorf("wrapped: %w", inspire.ErrRateLimited)), ErrRateLimited},
		{"inspire api error", mapInspireError(&inspire.APIError{StatusCode: 500}), ErrTransport},
		{"ads auth", mapADSError(ads.ErrAuthRequired), ErrAuthRequired},
		{"ads not found", mapADSError(ads.ErrNotFound), ErrNotFound},
		{"ads invalid response", mapADSError(ads.ErrInvalidResponse), ErrMalformed},
		{"s2 rate limited", mapS2Error(s2.ErrRateLimited), ErrRateLimited},
		{"s2 network", mapS2Error(s2.ErrNetworkError), ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.in, tt.want) {
				t.Errorf("mapped error %v does not wrap %v", tt.in, tt.want)
			}
		})
	}
}

const adsExportEntry = "@ARTICLE{2016PhRvL.116f1102A,\n  author = {{Abbott}, B.~P.},\n  doi = {10.1103/PhysRevLett.116.061102},\n  title = {Observation of Gravitational Waves}\n}"

// newADSServer serves the two endpoints the adapter touches.
func newADSServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/export/bibtex", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"export": %q}`, adsExportEntry)
	})
	mux.HandleFunc("/search/query", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response": {"docs": [{"bibcode": "2016PhRvL.116f1102A"}]}}`)
	})
	return httptest.NewServer(mux)
}

func TestADSAdapterBibcode(t *testing.T) {
	srv := newADSServer(t)
	defer srv.Close()

	client := ads.NewClient(ads.WithToken("test-token"), ads.WithBaseURL(srv.URL))
	adapter := NewADSAdapter(client, nil)

	res, err := adapter.Fetch(context.Background(), citekey.New("2016PhRvL.116f1102A"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.NaturalKey != "2016PhRvL.116f1102A" {
		t.Errorf("natural key = %q", res.NaturalKey)
	}
	if res.DOI != "10.1103/PhysRevLett.116.061102" {
		t.Errorf("doi = %q", res.DOI)
	}
}

func TestADSAdapterArxivSearchesFirst(t *testing.T) {
	srv := newADSServer(t)
	defer srv.Close()

	client := ads.NewClient(ads.WithToken("test-token"), ads.WithBaseURL(srv.URL))
	adapter := NewADSAdapter(client, nil)

	res, err := adapter.Fetch(context.Background(), citekey.New("1602.03837"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Entry != adsExportEntry {
		t.Errorf("entry = %q", res.Entry)
	}
	// The entry itself has no eprint field; the cited ID fills the gap.
	if res.Eprint != "1602.03837" {
		t.Errorf("eprint = %q", res.Eprint)
	}
}

func TestADSAdapterCrossReferencesTexkey(t *testing.T) {
	adsSrv := newADSServer(t)
	defer adsSrv.Close()

	inspSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits": {"hits": [{"metadata": {
			"texkeys": ["LIGOScientific:2016aoc"],
			"arxiv_eprints": [{"value": "1602.03837"}],
			"external_system_identifiers": [{"schema": "ADS", "value": "2016PhRvL.116f1102A"}]
		}}]}}`)
	}))
	defer inspSrv.Close()

	client := ads.NewClient(ads.WithToken("test-token"), ads.WithBaseURL(adsSrv.URL))
	inspClient := inspire.NewClient(inspire.WithBaseURL(inspSrv.URL))
	adapter := NewADSAdapter(client, inspClient)

	res, err := adapter.Fetch(context.Background(), citekey.New("LIGOScientific:2016aoc"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Entry != adsExportEntry {
		t.Errorf("entry = %q", res.Entry)
	}
	if res.Eprint != "1602.03837" {
		t.Errorf("eprint = %q, want backfill from metadata", res.Eprint)
	}
}

func TestADSAdapterTexkeyWithoutInspire(t *testing.T) {
	client := ads.NewClient(ads.WithToken("test-token"))
	adapter := NewADSAdapter(client, nil)

	_, err := adapter.Fetch(context.Background(), citekey.New("LIGOScientific:2016aoc"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want not found when cross-referencing is unavailable", err)
	}
}

func TestS2AdapterRejectsNonArxivKeys(t *testing.T) {
	adapter := NewS2Adapter(s2.NewClient())

	for _, raw := range []string{"LIGOScientific:2016aoc", "2016PhRvL.116f1102A", "my-lab-notes"} {
		if _, err := adapter.Fetch(context.Background(), citekey.New(raw)); !errors.Is(err, ErrNotFound) {
			t.Errorf("Fetch(%q) err = %v, want not found without network traffic", raw, err)
		}
	}
}

func TestLocalAdapter(t *testing.T) {
	adapter := NewLocalAdapter(MapLocalSource{
		"mynotes2020": {Key: "mynotes2020", Text: "@misc{mynotes2020,\n  note = {draft}\n}", Eprint: "2001.00001"},
	})

	res, err := adapter.Fetch(context.Background(), citekey.New("mynotes2020"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Eprint != "2001.00001" {
		t.Errorf("eprint = %q", res.Eprint)
	}

	if _, err := adapter.Fetch(context.Background(), citekey.New("absent")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing key err = %v, want not found", err)
	}
}
