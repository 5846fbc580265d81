package historyerrors

import (
	"net/http"

	"hostelpass/internal/shared/apperror"
)

var (
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid history record id",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"history record not found",
		http.StatusNotFound,
	)
	ErrOutsideScope = apperror.New(
		apperror.CodeForbidden,
		"not authorized to access this history record",
		http.StatusForbidden,
	)
)
