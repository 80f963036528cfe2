// Package inspire provides a client for the INSPIRE-HEP literature API.
package inspire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the INSPIRE literature API endpoint.
	BaseURL = "https://inspirehep.net/api/literature"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps well under INSPIRE's 15 requests per 5 seconds.
	RateLimit = 2.0
)

// Client is a rate-limited HTTP client for the INSPIRE literature API.
// INSPIRE requires no authentication.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new INSPIRE API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query helpers. INSPIRE takes the same ?q= search syntax for all record
// lookups; only the search keyword differs per identifier kind.

// TexkeyQuery builds a query for an INSPIRE texkey. The texkeys field is
// used so the colon is not interpreted as a field operator.
func TexkeyQuery(key string) string {
	return "texkeys:" + key
}

// ArxivQuery builds a query for an arXiv ID (either style).
func ArxivQuery(id string) string {
	return "arxiv:" + id
}

// BibcodeQuery builds a query for an ADS bibcode.
func BibcodeQuery(code string) string {
	return "external_system_identifiers.value:" + code
}

// FetchBibTeX fetches the BibTeX entry for a literature query. The returned
// text is trimmed; an empty response body means the record does not exist.
func (c *Client) FetchBibTeX(ctx context.Context, query string) (string, error) {
	body, err := c.get(ctx, query, "application/x-bibtex")
	if err != nil {
		return "", err
	}

	entry := strings.TrimSpace(string(body))
	if entry == "" {
		return "", ErrNotFound
	}
	return entry, nil
}

// Metadata is the subset of INSPIRE record metadata used for
// cross-referencing a record in other databases.
type Metadata struct {
	Texkey     string // the record's own texkey
	ArxivID    string
	DOI        string
	ADSBibcode string
}

// literatureResponse mirrors the INSPIRE JSON search response shape.
type literatureResponse struct {
	Hits struct {
		Hits []struct {
			Metadata struct {
				Texkeys      []string `json:"texkeys"`
				ArxivEprints []struct {
					Value string `json:"value"`
				} `json:"arxiv_eprints"`
				DOIs []struct {
					Value string `json:"value"`
				} `json:"dois"`
				ExternalIDs []struct {
					Schema string `json:"schema"`
					Value  string `json:"value"`
				} `json:"external_system_identifiers"`
			} `json:"metadata"`
		} `json:"hits"`
	} `json:"hits"`
}

// FetchMetadata fetches cross-reference identifiers (texkey, arXiv ID, DOI,
// ADS bibcode) for a literature query.
func (c *Client) FetchMetadata(ctx context.Context, query string) (*Metadata, error) {
	body, err := c.get(ctx, query, "application/json")
	if err != nil {
		return nil, err
	}

	var resp literatureResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: parsing literature response: %v", ErrInvalidResponse, err)
	}

	if len(resp.Hits.Hits) == 0 {
		return nil, ErrNotFound
	}

	md := resp.Hits.Hits[0].Metadata
	result := &Metadata{}
	if len(md.Texkeys) > 0 {
		result.Texkey = md.Texkeys[0]
	}
	if len(md.ArxivEprints) > 0 {
		result.ArxivID = md.ArxivEprints[0].Value
	}
	if len(md.DOIs) > 0 {
		result.DOI = md.DOIs[0].Value
	}
	for _, ext := range md.ExternalIDs {
		if ext.Schema == "ADS" {
			result.ADSBibcode = ext.Value
			break
		}
	}

	return result, nil
}

// get performs a rate-limited GET against the literature endpoint.
func (c *Client) get(ctx context.Context, query, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	return readBody(resp)
}
