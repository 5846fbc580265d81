package adminerrors

import (
	"net/http"

	"hostelpass/internal/shared/apperror"
)

var (
	ErrInvalidAdminID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid admin id",
		http.StatusBadRequest,
	)
	ErrAdminNotFound = apperror.New(
		apperror.CodeNotFound,
		"admin not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrInsufficientRank = apperror.New(
		apperror.CodeForbidden,
		"acting role must outrank the target role",
		http.StatusForbidden,
	)
	ErrCannotRaiseOwnRole = apperror.New(
		apperror.CodeForbidden,
		"cannot assign yourself a higher role",
		http.StatusForbidden,
	)
)
