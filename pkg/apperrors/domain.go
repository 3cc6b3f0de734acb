package apperrors

import (
	"net/http"
)

// Factories for wrapping repository errors.

func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrExternalService(err error, domain, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain, message, http.StatusBadGateway)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// Predefined errors for the frequent static cases.

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"An account with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrUserNotVerified = New(
	CodeForbidden,
	"auth",
	"Please verify your email before signing in",
	http.StatusForbidden,
)

var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"This account has been suspended",
	http.StatusForbidden,
)

// ErrDailyLimitReached gates dump creation for free-tier users.
var ErrDailyLimitReached = New(
	CodeLimitExceeded,
	"quota",
	"Daily dump limit reached. Upgrade to premium for unlimited dumps.",
	http.StatusForbidden,
)

var ErrDumpNotFound = New(
	CodeNotFound,
	"dumps",
	"Dump not found",
	http.StatusNotFound,
)

var ErrBillingNotConfigured = New(
	CodeExternalServiceError,
	"billing",
	"Billing provider is not configured",
	http.StatusInternalServerError,
)

var ErrSubscriptionNotFound = New(
	CodeNotFound,
	"billing",
	"No subscription on record for this user",
	http.StatusNotFound,
)
