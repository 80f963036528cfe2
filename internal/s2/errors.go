package s2

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Common errors returned by the Semantic Scholar client.
var (
	// ErrNotFound indicates the paper was not found.
	ErrNotFound = errors.New("not found in Semantic Scholar")

	// ErrAuthRequired indicates a rejected API key.
	ErrAuthRequired = errors.New("Semantic Scholar authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("Semantic Scholar rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with Semantic Scholar")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from Semantic Scholar")
)

// APIError represents a non-OK HTTP response from the Graph API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Semantic Scholar API error (status %d): %s", e.StatusCode, e.Message)
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthRequired, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
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
