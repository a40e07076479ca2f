package attendanceerrors

import (
	"net/http"

	"go-hrm/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"You have already checked in today",
		http.StatusConflict,
	)

	ErrNotCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"You have not checked in today",
		http.StatusBadRequest,
	)

	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeConflict,
		"You have already checked out today",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user id",
		http.StatusBadRequest,
	)
)
