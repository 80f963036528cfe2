package inspire

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Common errors returned by the INSPIRE client.
var (
	// ErrNotFound indicates no literature record matched the query.
	ErrNotFound = errors.New("not found in INSPIRE")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("INSPIRE rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with INSPIRE")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from INSPIRE")
)

// APIError represents a non-OK HTTP response from the INSPIRE API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("INSPIRE API error (status %d): %s", e.StatusCode, e.Message)
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// readBody reads a response body, mapping read failures to network errors.
func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetworkError, err)
	}
	return body, nil
}
