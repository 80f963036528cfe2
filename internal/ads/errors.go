package ads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Common errors returned by the ADS client.
var (
	// ErrNotFound indicates no record matched the bibcode or query.
	ErrNotFound = errors.New("not found in ADS")

	// ErrAuthRequired indicates a missing or rejected API token.
	ErrAuthRequired = errors.New("ADS API token required")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("ADS rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with ADS")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from ADS")
)

// APIError represents a non-OK HTTP response from the ADS API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ADS API error (status %d): %s", e.StatusCode, e.Message)
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthRequired, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
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
