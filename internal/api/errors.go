package api

import "errors"

// Error is an application-level failure: the server answered, but with
// success=false. Message holds the server-provided text when there was one.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Op + " failed"
	}
	return e.Op + ": " + e.Message
}

// UserMessage picks the text to surface for a failed call: the server's own
// message when present, the per-operation fallback for a bare application
// failure, and a generic network message for transport errors.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return "Network error. Please try again."
}

// IsAppError reports whether err came back as a well-formed success=false
// response rather than a transport failure.
func IsAppError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}
