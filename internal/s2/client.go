// Package s2 provides a client for the Semantic Scholar Academic Graph API.
package s2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Semantic Scholar Graph API base URL.
	BaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 1 request per second for unauthenticated clients;
	// an API key raises the server-side quota, not this local limit.
	RateLimit = 1.0

	// BibTeXFields requests the citation entry plus the identifiers used
	// for duplicate detection.
	BibTeXFields = "title,externalIds,citationStyles"
)

// Client is a rate-limited HTTP client for the Semantic Scholar Graph API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
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

// NewClient creates a new Semantic Scholar API client. The API key is read
// from the S2_API_KEY environment variable unless set via WithAPIKey.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if key := os.Getenv("S2_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Paper is the subset of the Graph API paper record used for citation
// resolution.
type Paper struct {
	PaperID     string `json:"paperId"`
	Title       string `json:"title"`
	ExternalIDs struct {
		DOI   string `json:"DOI,omitempty"`
		ArXiv string `json:"ArXiv,omitempty"`
	} `json:"externalIds,omitempty"`
	CitationStyles struct {
		BibTeX string `json:"bibtex,omitempty"`
	} `json:"citationStyles,omitempty"`
}

// GetPaper fetches a paper by identifier (ARXIV:<id>, DOI:<doi>, or a raw
// S2 paper ID) including its BibTeX citation entry.
func (c *Client) GetPaper(ctx context.Context, paperID string) (*Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/paper/" + url.PathEscape(paperID) + "?fields=" + url.QueryEscape(BibTeXFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	var paper Paper
	if err := json.Unmarshal(body, &paper); err != nil {
		return nil, fmt.Errorf("%w: parsing paper: %v", ErrInvalidResponse, err)
	}
	if paper.PaperID == "" {
		return nil, ErrNotFound
	}

	return &paper, nil
}
