package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError names the offending request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Problem type URIs
const (
	ErrorTypeValidation    = "https://pennywise.dev/errors/validation"
	ErrorTypeNotFound      = "https://pennywise.dev/errors/not-found"
	ErrorTypeUnauthorized  = "https://pennywise.dev/errors/unauthorized"
	ErrorTypeConflict      = "https://pennywise.dev/errors/conflict"
	ErrorTypeUnprocessable = "https://pennywise.dev/errors/unprocessable"
	ErrorTypeUnavailable   = "https://pennywise.dev/errors/unavailable"
	ErrorTypeInternal      = "https://pennywise.dev/errors/internal"
)

func respondProblem(c echo.Context, status int, typ, detail string, errs []ValidationError) error {
	return c.JSON(status, ProblemDetails{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errs,
	})
}

// NewValidationError responds 400 with per-field messages
func NewValidationError(c echo.Context, detail string, errs []ValidationError) error {
	return respondProblem(c, http.StatusBadRequest, ErrorTypeValidation, detail, errs)
}

func NewNotFoundError(c echo.Context, detail string) error {
	return respondProblem(c, http.StatusNotFound, ErrorTypeNotFound, detail, nil)
}

func NewUnauthorizedError(c echo.Context, detail string) error {
	return respondProblem(c, http.StatusUnauthorized, ErrorTypeUnauthorized, detail, nil)
}

func NewConflictError(c echo.Context, detail string) error {
	return respondProblem(c, http.StatusConflict, ErrorTypeConflict, detail, nil)
}

func NewInternalError(c echo.Context, detail string) error {
	return respondProblem(c, http.StatusInternalServerError, ErrorTypeInternal, detail, nil)
}

// NewUnprocessableError responds 422 to well-formed requests the account state cannot honour
func NewUnprocessableError(c echo.Context, detail string) error {
	return respondProblem(c, http.StatusUnprocessableEntity, ErrorTypeUnprocessable, detail, nil)
}

// NewServiceUnavailableError responds 503 for optional backends that are not configured
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return respondProblem(c, http.StatusServiceUnavailable, ErrorTypeUnavailable, detail, nil)
}

// currentUser returns the authenticated user ID or false when the request carries none
func currentUser(c echo.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	return userID, userID != uuid.Nil
}

// serviceError maps domain errors to problem responses. Anything unrecognised is
// logged and reported as an internal error with the given message.
func serviceError(c echo.Context, err error, userID uuid.UUID, message string) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return NewUnprocessableError(c, "Insufficient balance")
	case errors.Is(err, domain.ErrInsufficientSaved):
		return NewUnprocessableError(c, "Insufficient saved amount")
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be greater than zero"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrDetailTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "detail", Message: "Detail must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		return NewConflictError(c, "A budget for this category and period already exists")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Expense not found")
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrSaveGoalNotFound):
		return NewNotFoundError(c, "Save goal not found")
	case errors.Is(err, domain.ErrAccountNotFound):
		return NewNotFoundError(c, "Account not found")
	case errors.Is(err, domain.ErrAPITokenNotFound):
		return NewNotFoundError(c, "API token not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return NewNotFoundError(c, "User not found")
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrExportDisabled):
		return NewServiceUnavailableError(c, "Report archiving is not configured")
	}

	log.Error().Err(err).Str("user_id", userID.String()).Msg(message)
	return NewInternalError(c, message)
}
