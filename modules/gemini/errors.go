package gemini

import (
	"errors"
	"strings"
)

// Failure taxonomy of the generation client. The studio controller maps all
// of these to its two user-facing messages; the wrapped detail only reaches
// the logs.
var (
	// ErrNoCandidate - the image response carried no candidates at all.
	ErrNoCandidate = errors.New("no candidates in response")

	// ErrMalformedResponse - candidates came back but none held inline
	// image data.
	ErrMalformedResponse = errors.New("no image data in response")

	// ErrCredential - no usable API key could be obtained, or the backend
	// rejected the one we had.
	ErrCredential = errors.New("no valid API key")

	// ErrJobFailed - the video operation finished without a retrievable
	// video, or never finished within the polling budget.
	ErrJobFailed = errors.New("video job yielded no video")

	// ErrDownload - the video bytes could not be fetched from the
	// resolved URI.
	ErrDownload = errors.New("video download failed")
)

// is429Error reports whether the API rejected the call for rate/quota
// reasons, which is worth retrying on another key.
func is429Error(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(strings.ToLower(errStr), "rate limit") ||
		strings.Contains(strings.ToLower(errStr), "quota")
}

// isEntityNotFound matches the backend's rejection of an invalid or revoked
// API key on the video endpoints.
func isEntityNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Requested entity was not found")
}
