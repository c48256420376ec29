package pokeapi

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrNotFound  = errors.New("pokeapi: not found")
	ErrEmptyKey  = errors.New("pokeapi: empty id or name")
	ErrInvalidID = errors.New("pokeapi: id must be positive")
)

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"     // No response was obtained.
	KindHTTPStatus ErrorKind = "http_status" // The server answered with a non-2xx status.
	KindParse      ErrorKind = "parse"       // The body did not decode into the expected shape.
)

// maxBodyExcerpt bounds how much of an error body is kept on a FetchError.
const maxBodyExcerpt = 200

// FetchError is the single error shape returned by the data-access layer.
type FetchError struct {
	Kind   ErrorKind
	URL    string
	Status int    // HTTP status; zero unless Kind is KindHTTPStatus.
	Body   string // Best-effort excerpt of the response body.
	Err    error  // Underlying transport or decode error.
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		msg := fmt.Sprintf("Error %d fetching %s", e.Status, e.URL)
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return msg
	case KindParse:
		return fmt.Sprintf("parse error fetching %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports 404 responses as ErrNotFound.
func (e *FetchError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindHTTPStatus && e.Status == http.StatusNotFound
}

// excerpt cuts body to at most maxBodyExcerpt bytes without splitting a
// UTF-8 sequence, marking a cut with "...".
func excerpt(body []byte) string {
	if len(body) <= maxBodyExcerpt {
		return string(body)
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
