package authzerrors

import (
	"net/http"

	"hostelpass/internal/shared/apperror"
)

var (
	ErrNotAuthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"authentication is required",
		http.StatusUnauthorized,
	)
	ErrWrongActorKind = apperror.New(
		apperror.CodeForbidden,
		"this operation is not available to your account type",
		http.StatusForbidden,
	)
	ErrInsufficientRole = apperror.New(
		apperror.CodeForbidden,
		"your role does not have sufficient privileges",
		http.StatusForbidden,
	)
)
