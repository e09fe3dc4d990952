package inference

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("groq API key not configured")
	ErrEmptyContent  = errors.New("no response from AI")
)

// UpstreamError is a non-2xx answer from the provider. StatusCode is passed through to callers.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("groq upstream error (status %d): %s", e.StatusCode, e.Message)
}

// Outcome classifies err for the AI call metric.
func Outcome(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingAPIKey):
		return "missing_key"
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	case errors.As(err, &upstream):
		return "upstream_error"
	default:
		return "transport_error"
	}
}
