package autherrors

import (
	"net/http"

	"go-hrm/internal/shared/apperror"
)

var (
	ErrUnexpectedSignIn = apperror.New(
		apperror.CodeInvalidState,
		"Unexpected sign-in response",
		http.StatusOK,
	)
	ErrUnexpectedProfile = apperror.New(
		apperror.CodeInvalidState,
		"Unexpected profile response",
		http.StatusOK,
	)
)
