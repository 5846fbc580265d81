package studenterrors

import (
	"net/http"

	"hostelpass/internal/shared/apperror"
)

var (
	ErrInvalidStudentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid student id",
		http.StatusBadRequest,
	)
	ErrStudentNotFound = apperror.New(
		apperror.CodeNotFound,
		"student not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"a student with this email already exists",
		http.StatusConflict,
	)
	ErrNotOwnProfile = apperror.New(
		apperror.CodeForbidden,
		"not authorized to access this student profile",
		http.StatusForbidden,
	)
	ErrStudentOutsideBlock = apperror.New(
		apperror.CodeForbidden,
		"student is not in your hostel block",
		http.StatusForbidden,
	)
	ErrUnknownYear = apperror.New(
		apperror.CodeInvalidInput,
		"unknown academic year",
		http.StatusBadRequest,
	)
	ErrYearNotUpgradable = apperror.New(
		apperror.CodeInvalidInput,
		"cannot upgrade year further",
		http.StatusBadRequest,
	)
	ErrEmptyBulkPayload = apperror.New(
		apperror.CodeInvalidInput,
		"please provide at least one student",
		http.StatusBadRequest,
	)
)
