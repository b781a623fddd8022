package verify

import "errors"

// Sentinel errors for transcription API interaction.
// Providers map HTTP status codes to these at the adapter boundary;
// callers check with errors.Is.
var (
	// ErrAPIKeyMissing indicates OPENAI_API_KEY is not set.
	ErrAPIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")

	// ErrRateLimit indicates the API rate limit was exceeded (retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue,
	// not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed.
	ErrAuthFailed = errors.New("authentication failed")
)
