package apperror

import "net/http"

// FromStatus classifies a non-2xx response. message is whatever the caller
// could extract from the body; an empty one is replaced by the generic text.
func FromStatus(status int, message string) *AppError {
	if message == "" {
		message = MsgGeneric
	}

	switch {
	case status == http.StatusUnauthorized:
		return New(CodeUnauthorized, message, status)
	case status == http.StatusForbidden:
		return New(CodeForbidden, message, status)
	case status == http.StatusNotFound:
		return New(CodeNotFound, message, status)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return New(CodeInvalidInput, message, status)
	case status == http.StatusConflict:
		return New(CodeConflict, message, status)
	case status == http.StatusTooManyRequests:
		return New(CodeRateLimited, message, status)
	case status >= 400 && status < 500:
		return New(CodeInvalidState, message, status)
	case status == http.StatusServiceUnavailable:
		// 5xx bodies are not shown to the user
		return New(CodeServiceUnavailable, MsgGeneric, status)
	default:
		return New(CodeInternalError, MsgGeneric, status)
	}
}

// Network wraps a transport failure (DNS, refused connection, timeout).
func Network(err error) *AppError {
	return Wrap(err, CodeNetworkError, MsgNetwork, 0)
}

func hasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsUnauthorized(err error) bool { return hasCode(err, CodeUnauthorized) }

func IsForbidden(err error) bool { return hasCode(err, CodeForbidden) }

func IsValidation(err error) bool { return hasCode(err, CodeInvalidInput) }

func IsNetwork(err error) bool { return hasCode(err, CodeNetworkError) }

// IsRetryable reports whether the user may simply try the same action again.
func IsRetryable(err error) bool {
	appErr, ok := As(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case CodeNetworkError, CodeInternalError, CodeServiceUnavailable, CodeRateLimited:
		return true
	}
	return false
}
