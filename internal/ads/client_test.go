package ads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExportBibTeX(t *testing.T) {
	const entry = "@ARTICLE{2016PhRvL.116f1102A,\n  title = {...},\n}"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export/bibtex" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		var req map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req["bibcode"]) != 1 || req["bibcode"][0] != "2016PhRvL.116f1102A" {
			t.Errorf("bibcode = %v", req["bibcode"])
		}

		json.NewEncoder(w).Encode(map[string]string{"export": entry + "\n"})
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("test-token"))
	got, err := c.ExportBibTeX(context.Background(), "2016PhRvL.116f1102A")
	if err != nil {
		t.Fatalf("ExportBibTeX(): %v", err)
	}
	if got != entry {
		t.Errorf("ExportBibTeX() = %q", got)
	}
}

func TestExportBibTeXNoRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"export": "No records returned"})
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("t"))
	_, err := c.ExportBibTeX(context.Background(), "bogus")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestSearchByArxiv(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "arXiv:1602.03837" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("fl"); got != "bibcode" {
			t.Errorf("fl = %q", got)
		}
		w.Write([]byte(`{"response": {"docs": [{"bibcode": "2016PhRvL.116f1102A"}]}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("t"))
	got, err := c.SearchByArxiv(context.Background(), "1602.03837")
	if err != nil {
		t.Fatalf("SearchByArxiv(): %v", err)
	}
	if got != "2016PhRvL.116f1102A" {
		t.Errorf("SearchByArxiv() = %q", got)
	}
}

func TestSearchBibcodeNoDocs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"docs": []}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("t"))
	_, err := c.SearchBibcode(context.Background(), "arXiv:0000.00000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestMissingToken(t *testing.T) {
	// No request should be issued without a token.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request issued without token")
	}))
	defer srv.Close()

	t.Setenv("ADS_API_KEY", "")
	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.ExportBibTeX(context.Background(), "x")
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("want ErrAuthRequired, got %v", err)
	}
}

func TestAuthRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("bad"))
	_, err := c.ExportBibTeX(context.Background(), "x")
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("want ErrAuthRequired, got %v", err)
	}
}

func TestRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("t"))
	_, err := c.SearchBibcode(context.Background(), "q")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("want ErrRateLimited, got %v", err)
	}
}
