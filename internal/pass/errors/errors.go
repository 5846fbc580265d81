package passerrors

import (
	"net/http"

	"hostelpass/internal/shared/apperror"
)

var (
	ErrInvalidPassID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrPassNotFound = apperror.New(
		apperror.CodeNotFound,
		"request not found",
		http.StatusNotFound,
	)
	ErrStudentActorRequired = apperror.New(
		apperror.CodeForbidden,
		"only students can create requests",
		http.StatusForbidden,
	)
	ErrAdminActorRequired = apperror.New(
		apperror.CodeForbidden,
		"only admins can perform this operation",
		http.StatusForbidden,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"not authorized to access this request",
		http.StatusForbidden,
	)
	ErrOutsideBlock = apperror.New(
		apperror.CodeForbidden,
		"request belongs to a student outside your hostel block",
		http.StatusForbidden,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid schedule time format",
		http.StatusBadRequest,
	)
	ErrInvalidWindow = apperror.New(
		apperror.CodeInvalidInput,
		"scheduled return must not be before scheduled departure",
		http.StatusBadRequest,
	)
	ErrOutingQuotaExhausted = apperror.New(
		apperror.CodeQuotaExhausted,
		"no remaining outings for this month",
		http.StatusBadRequest,
	)
	ErrLeaveQuotaExhausted = apperror.New(
		apperror.CodeQuotaExhausted,
		"no remaining leaves for this semester",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidTransition,
		"request is no longer pending",
		http.StatusBadRequest,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidTransition,
		"request has already reached a terminal decision",
		http.StatusBadRequest,
	)
	ErrUnknownStatus = apperror.New(
		apperror.CodeInvalidInput,
		"unknown target status",
		http.StatusBadRequest,
	)
	ErrRemarksRequired = apperror.New(
		apperror.CodeInvalidInput,
		"remarks are required when rejecting a request",
		http.StatusBadRequest,
	)
	ErrForwardAtHighestRole = apperror.New(
		apperror.CodeInvalidTransition,
		"cannot forward from the highest authority level",
		http.StatusBadRequest,
	)
	ErrNotAccepted = apperror.New(
		apperror.CodeInvalidTransition,
		"only accepted requests can be recorded",
		http.StatusBadRequest,
	)
	ErrDepartureNotRecorded = apperror.New(
		apperror.CodeInvalidTransition,
		"departure must be recorded before return",
		http.StatusBadRequest,
	)
	ErrAlreadyReturned = apperror.New(
		apperror.CodeInvalidTransition,
		"return already recorded",
		http.StatusBadRequest,
	)
)
