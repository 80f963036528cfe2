// Package ads provides a client for the NASA ADS (Astrophysics Data System) API.
package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the ADS API base URL.
	BaseURL = "https://api.adsabs.harvard.edu/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit stays under the per-token daily quota burst limits.
	RateLimit = 5.0
)

// Client is a rate-limited HTTP client for the ADS API. All endpoints
// require a bearer token (ADS_API_KEY).
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the API token for authenticated requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

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

// NewClient creates a new ADS API client. The token is read from the
// ADS_API_KEY environment variable unless set via WithToken.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if token := os.Getenv("ADS_API_KEY"); token != "" {
		c.token = token
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasToken reports whether the client has an API token configured.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// ExportBibTeX fetches the BibTeX entry for a bibcode via the export endpoint.
func (c *Client) ExportBibTeX(ctx context.Context, bibcode string) (string, error) {
	reqBody, err := json.Marshal(map[string][]string{"bibcode": {bibcode}})
	if err != nil {
		return "", fmt.Errorf("marshaling export request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/export/bibtex", reqBody)
	if err != nil {
		return "", err
	}

	var result struct {
		Export string `json:"export"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: parsing export response: %v", ErrInvalidResponse, err)
	}

	export := strings.TrimSpace(result.Export)
	if export == "" || strings.HasPrefix(export, "No records") {
		return "", ErrNotFound
	}
	return export, nil
}

// SearchBibcode runs a search query and returns the bibcode of the first
// matching document.
func (c *Client) SearchBibcode(ctx context.Context, query string) (string, error) {
	path := "/search/query?q=" + url.QueryEscape(query) + "&fl=bibcode"

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	var result struct {
		Response struct {
			Docs []struct {
				Bibcode string `json:"bibcode"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: parsing search response: %v", ErrInvalidResponse, err)
	}

	if len(result.Response.Docs) == 0 || result.Response.Docs[0].Bibcode == "" {
		return "", ErrNotFound
	}
	return result.Response.Docs[0].Bibcode, nil
}

// SearchByArxiv returns the bibcode for a paper identified by arXiv ID.
func (c *Client) SearchByArxiv(ctx context.Context, arxivID string) (string, error) {
	return c.SearchBibcode(ctx, "arXiv:"+arxivID)
}

// do performs a rate-limited, authenticated request against the API.
func (c *Client) do(ctx context.Context, method, path string, reqBody []byte) ([]byte, error) {
	if c.token == "" {
		return nil, ErrAuthRequired
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var body *bytes.Reader
	if reqBody != nil {
		body = bytes.NewReader(reqBody)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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
