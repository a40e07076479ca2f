package attendanceerrors

import (
	"net/http"

	"go-hrm/internal/shared/apperror"
)

var (
	ErrActionInProgress = apperror.New(
		apperror.CodeInvalidState,
		"Another attendance action is still in progress",
		0,
	)
	ErrUnexpectedStatus = apperror.New(
		apperror.CodeInvalidState,
		"Unexpected attendance response",
		http.StatusOK,
	)
)
