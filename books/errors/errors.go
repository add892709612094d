package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/qolzam/bookcatalog/books/dsql"
)

// Book service specific errors
var (
	ErrBookNotFound          = errors.New("book not found")
	ErrBookOwnershipRequired = errors.New("book ownership required")
	ErrInvalidFilter         = errors.New("invalid filter")
	ErrInvalidBookData       = errors.New("invalid book data")

	// Request and validation errors
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidID          = errors.New("invalid book id")
	ErrMissingUserContext = errors.New("missing user context")
	ErrPermissionDenied   = errors.New("permission denied")

	// Database and system errors
	ErrDatabaseOperation = errors.New("database operation failed")
)

// BookError represents a book service error with additional context
type BookError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

func (e *BookError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookError) Unwrap() error {
	return e.Cause
}

// NewBookError creates a new BookError
func NewBookError(code, message string, cause error) *BookError {
	return &BookError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error codes
const (
	CodeBookNotFound       = "BOOK_NOT_FOUND"
	CodeInvalidFilter      = "INVALID_FILTER"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidID          = "INVALID_ID"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeDatabaseOperation  = "DATABASE_OPERATION_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// FilterErrorDetails tells a client which part of its dsql expression was rejected
type FilterErrorDetails struct {
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Field    string `json:"field,omitempty"`
	Reason   string `json:"reason"`
}

// WrapFilterError marks a parser failure as a rejected filter. The parser's
// error stays reachable through errors.Is and errors.As.
func WrapFilterError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
}

// WrapDatabaseError marks a store failure
func WrapDatabaseError(err error) error {
	return fmt.Errorf("%w: %w", ErrDatabaseOperation, err)
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var parseErr *dsql.Error
	switch {
	case errors.Is(err, ErrInvalidFilter) && errors.As(err, &parseErr):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidFilter,
			Message: "Invalid filter expression",
			Details: FilterErrorDetails{
				Kind:     parseErr.Code(),
				Position: parseErr.Pos,
				Field:    parseErr.Field,
				Reason:   parseErr.Error(),
			},
		})
	case errors.Is(err, ErrInvalidFilter):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidFilter,
			Message: "Invalid filter expression",
			Details: err.Error(),
		})
	case errors.Is(err, ErrBookNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeBookNotFound,
			Message: "Book not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrBookOwnershipRequired), errors.Is(err, ErrPermissionDenied):
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Code:    CodePermissionDenied,
			Message: "Permission denied",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidID):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidID,
			Message: "Invalid book id",
			Details: err.Error(),
		})
	case errors.Is(err, ErrMissingUserContext):
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Code:    CodeMissingUserContext,
			Message: "Authentication required",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidRequest):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidRequest,
			Message: "Invalid request",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidBookData):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, ErrDatabaseOperation):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Code:    CodeDatabaseOperation,
			Message: "Database operation failed",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    CodeInternalError,
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string, details ...string) error {
	response := ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(http.StatusBadRequest).JSON(response)
}

// HandleInvalidRequestError handles invalid request errors with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}

// HandleIDError handles a malformed :id path parameter
func HandleIDError(c *fiber.Ctx, raw string) error {
	return HandleServiceError(c, fmt.Errorf("%w %q", ErrInvalidID, raw))
}

// HandleUserContextError handles a request that reached a protected handler without a user
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return HandleServiceError(c, fmt.Errorf("%w: %s", ErrMissingUserContext, message))
}

// HandleNotFoundError answers 404 for an absent book
func HandleNotFoundError(c *fiber.Ctx, id int64) error {
	message := fmt.Sprintf("Book %d not found", id)
	return c.Status(http.StatusNotFound).JSON(ErrorResponse{
		Code:    CodeBookNotFound,
		Message: "Book not found",
		Details: message,
	})
}

// HandlePermissionError handles permission errors with 403 Forbidden
func HandlePermissionError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusForbidden).JSON(ErrorResponse{
		Code:    CodePermissionDenied,
		Message: message,
		Details: message,
	})
}
