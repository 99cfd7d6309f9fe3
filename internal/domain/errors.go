package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInput marks unreadable or undecodable input documents. Fatal for a run.
	ErrInput = errors.New("input error")
	// ErrMalformedInput marks a document that lacks its required structure.
	ErrMalformedInput = fmt.Errorf("%w: malformed input", ErrInput)
	// ErrSelection marks a manifest query without a unique match.
	ErrSelection = errors.New("selection error")
	// ErrSelectionAborted is returned when the operator quits the selection prompt.
	ErrSelectionAborted = errors.New("selection aborted")
	// ErrWrite marks filesystem failures while persisting assets.
	ErrWrite = errors.New("write error")

	// ErrNetwork matches a FetchError of kind FetchNetwork.
	ErrNetwork = errors.New("network error")
	// ErrTimeout matches a FetchError of kind FetchTimeout.
	ErrTimeout = errors.New("timeout")
	// ErrHTTPStatus matches a FetchError of kind FetchHTTPStatus.
	ErrHTTPStatus = errors.New("http status error")
)

// FetchErrorKind enumerates per-item fetch failures.
type FetchErrorKind string

const (
	// FetchNetwork covers connection, DNS and body read failures.
	FetchNetwork FetchErrorKind = "network"
	// FetchTimeout means the request outlived its deadline.
	FetchTimeout FetchErrorKind = "timeout"
	// FetchHTTPStatus means the server answered with a non-2xx status.
	FetchHTTPStatus FetchErrorKind = "http_status"
)

// FetchError describes why a single reference could not be retrieved.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Detail     string
	Err        error
}

// Error describes the failure with the URL it concerns.
func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		if e.Detail != "" {
			return fmt.Sprintf("fetch %s: status %d (%s)", e.URL, e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	case FetchTimeout:
		return fmt.Sprintf("fetch %s: timed out: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels ErrNetwork, ErrTimeout and ErrHTTPStatus.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == FetchNetwork
	case ErrTimeout:
		return e.Kind == FetchTimeout
	case ErrHTTPStatus:
		return e.Kind == FetchHTTPStatus
	}
	return false
}
