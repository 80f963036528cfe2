package inspire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchBibTeX(t *testing.T) {
	const entry = "@article{Weinberg:1967tq,\n  title = {A Model of Leptons},\n}"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "texkeys:Weinberg:1967tq" {
			t.Errorf("query = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/x-bibtex" {
			t.Errorf("Accept = %q", got)
		}
		w.Write([]byte(entry + "\n"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	got, err := c.FetchBibTeX(context.Background(), TexkeyQuery("Weinberg:1967tq"))
	if err != nil {
		t.Fatalf("FetchBibTeX(): %v", err)
	}
	if got != entry {
		t.Errorf("FetchBibTeX() = %q, want %q", got, entry)
	}
}

func TestFetchBibTeXEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  \n"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchBibTeX(context.Background(), TexkeyQuery("Nobody:2020xyz"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("empty body should map to ErrNotFound, got %v", err)
	}
}

func TestFetchBibTeXRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchBibTeX(context.Background(), TexkeyQuery("X:2020aa"))
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("want ErrRateLimited, got %v", err)
	}
}

func TestFetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hits": {"hits": [{"metadata": {
				"texkeys": ["LIGOScientific:2016aoc"],
				"arxiv_eprints": [{"value": "1602.03837"}],
				"dois": [{"value": "10.1103/PhysRevLett.116.061102"}],
				"external_system_identifiers": [
					{"schema": "SPIRES", "value": "x"},
					{"schema": "ADS", "value": "2016PhRvL.116f1102A"}
				]
			}}]}
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	md, err := c.FetchMetadata(context.Background(), ArxivQuery("1602.03837"))
	if err != nil {
		t.Fatalf("FetchMetadata(): %v", err)
	}

	if md.Texkey != "LIGOScientific:2016aoc" {
		t.Errorf("Texkey = %q", md.Texkey)
	}
	if md.ArxivID != "1602.03837" {
		t.Errorf("ArxivID = %q", md.ArxivID)
	}
	if md.DOI != "10.1103/PhysRevLett.116.061102" {
		t.Errorf("DOI = %q", md.DOI)
	}
	if md.ADSBibcode != "2016PhRvL.116f1102A" {
		t.Errorf("ADSBibcode = %q", md.ADSBibcode)
	}
}

func TestFetchMetadataNoHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits": {"hits": []}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchMetadata(context.Background(), TexkeyQuery("Nobody:2020xyz"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestFetchMetadataMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.FetchMetadata(context.Background(), TexkeyQuery("X:2020aa"))
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("want ErrInvalidResponse, got %v", err)
	}
}
