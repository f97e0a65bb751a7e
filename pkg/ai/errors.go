package ai

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Kind classifies a failed AI call into one of a closed set of categories,
// so callers can decide whether to retry, re-authenticate, or give up
// without inspecting provider internals.
type Kind string

const (
	// KindRequestFailed is a transport-level failure: connection refused,
	// DNS resolution, malformed request.
	KindRequestFailed Kind = "request_failed"

	// KindInvalidResponse means the provider returned syntactically or
	// semantically malformed output: bad JSON, missing fields, an empty
	// content array.
	KindInvalidResponse Kind = "invalid_response"

	// KindRateLimited means the provider signaled throttling (HTTP 429).
	KindRateLimited Kind = "rate_limited"

	// KindAuthentication means the provider rejected the credential (HTTP 401).
	KindAuthentication Kind = "authentication_failed"

	// KindTimeout means the call did not complete within the configured bound.
	KindTimeout Kind = "timeout"

	// KindProvider is a provider-reported failure that is neither a rate
	// limit nor an auth rejection (5xx, or any other 4xx).
	KindProvider Kind = "provider_error"

	// KindConfiguration means the caller-supplied configuration is unusable,
	// e.g. an unsupported provider tag.
	KindConfiguration Kind = "configuration_error"
)

// Error is the single error type returned by AI clients and the Service.
// Kind is always set; Detail carries human-readable context; Bound is set
// only for KindTimeout errors.
type Error struct {
	Kind   Kind
	Detail string
	Bound  time.Duration // timeout bound that expired, for KindTimeout
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRequestFailed:
		return "API request failed: " + e.Detail
	case KindInvalidResponse:
		return "invalid response from AI model: " + e.Detail
	case KindRateLimited:
		return "rate limit exceeded"
	case KindAuthentication:
		return "authentication failed: " + e.Detail
	case KindTimeout:
		return fmt.Sprintf("request timed out after %s", e.Bound)
	case KindProvider:
		return "model error: " + e.Detail
	case KindConfiguration:
		return "configuration error: " + e.Detail
	default:
		return e.Detail
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, unwrapping as needed. Errors that do
// not originate from this package report an empty Kind.
func KindOf(err error) Kind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return ""
}

// errFromStatus maps a non-success HTTP status and response body to the
// taxonomy: 401 authentication, 429 rate limit, everything else that the
// provider answered with is a provider error.
func errFromStatus(status int, body string) *Error {
	switch {
	case status == 401:
		return &Error{Kind: KindAuthentication, Detail: body}
	case status == 429:
		return &Error{Kind: KindRateLimited, Detail: body}
	default:
		return &Error{Kind: KindProvider, Detail: fmt.Sprintf("HTTP %d: %s", status, body)}
	}
}

// errFromTransport maps an error from http.Client.Do to the taxonomy.
// Timeouts are classified first; anything else at the transport level is a
// request failure.
func errFromTransport(err error, bound time.Duration) *Error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Kind: KindTimeout, Bound: bound, Err: err}
	}
	return &Error{Kind: KindRequestFailed, Detail: err.Error(), Err: err}
}
