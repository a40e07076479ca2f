package sessionerrors

import (
	"errors"
	"net/http"

	"go-hrm/internal/shared/apperror"
)

var (
	ErrNotAuthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"Please log in first.",
		http.StatusUnauthorized,
	)
	ErrLoginInProgress = apperror.New(
		apperror.CodeInvalidState,
		"Sign-in is already in progress",
		0,
	)

	// ErrCorrupt is returned by storage when a persisted session cannot be
	// decoded. The stored keys are cleared before it is returned.
	ErrCorrupt = errors.New("session: stored session is corrupt")
)
