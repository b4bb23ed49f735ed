package errors

import (
	"context"
	stderrs "errors"
	"io"
	"net"
	"net/http"
	"syscall"
)

// Capability error classification.
//
// Upstream detection/rewrite providers fail in two ways: transient
// (timeouts, resets, 429/5xx) where a retry may succeed, and permanent
// (4xx contract violations) where it will not. Callers retry only on
// transient failures and record permanent ones per chunk.

// FromCapabilityStatus maps an upstream HTTP status to a project error
// A 2xx status returns nil
func FromCapabilityStatus(status int, op string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return WithOp(Newf(ErrorCodeTooManyRequests, "capability rate limited (%d)", status), op)
	case status == http.StatusRequestTimeout || status >= 500:
		return WithOp(Newf(ErrorCodeUnavailable, "capability unavailable (%d)", status), op)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return WithOp(Newf(ErrorCodeUnauthorized, "capability rejected credentials (%d)", status), op)
	default:
		return WithOp(Newf(ErrorCodeCapability, "capability request failed (%d)", status), op)
	}
}

// IsTransient reports whether err is worth retrying against the upstream
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests:
		return true
	case ErrorCodeCapability, ErrorCodeUnauthorized, ErrorCodeForbidden,
		ErrorCodeInvalidArgument, ErrorCodeContentPolicy:
		return false
	}

	// Unclassified transport-level causes
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	if stderrs.Is(err, context.Canceled) {
		return false
	}
	if stderrs.Is(err, io.ErrUnexpectedEOF) || stderrs.Is(err, io.EOF) {
		return true
	}
	if stderrs.Is(err, syscall.ECONNRESET) || stderrs.Is(err, syscall.ECONNREFUSED) ||
		stderrs.Is(err, syscall.EPIPE) {
		return true
	}
	var ne net.Error
	if stderrs.As(err, &ne) && ne.Timeout() {
		return true
	}
	var opErr *net.OpError
	return stderrs.As(err, &opErr)
}

// AsCapability coerces an unclassified transport error into one of ours,
// preserving already-classified errors as-is
func AsCapability(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return WithOp(err, op)
	}
	if IsTransient(err) {
		return WithOp(Wrapf(err, ErrorCodeUnavailable, "capability call failed"), op)
	}
	return WithOp(Wrapf(err, ErrorCodeCapability, "capability call failed"), op)
}

// Retryable reports whether the error is retryable
// Alias kept for store/openers symmetry
func Retryable(err error) bool { return IsTransient(err) }
