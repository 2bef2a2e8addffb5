package model

import (
	"fmt"
	"strings"
)

// HTTPError wraps a non-2xx status code returned by a source.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// PreviewLimit caps how much of an undecodable body is kept for logging.
const PreviewLimit = 500

// DecodeError reports a response body that could not be parsed.
type DecodeError struct {
	Source  string
	Preview string // first PreviewLimit bytes of the raw body
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decoding response: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError builds a DecodeError with a truncated preview of body.
func NewDecodeError(source string, body []byte, err error) *DecodeError {
	if len(body) > PreviewLimit {
		body = body[:PreviewLimit]
	}
	return &DecodeError{Source: source, Preview: string(body), Err: err}
}

// ConfigError reports required settings that are absent.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}
