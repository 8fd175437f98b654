package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with a classification code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes for the ingestion pipeline and the HTTP boundary
const (
	ErrCodeFetch       = "FETCH_ERROR"
	ErrCodeParse       = "PARSE_ERROR"
	ErrCodePersistence = "PERSISTENCE_ERROR"
	ErrCodeRegistry    = "REGISTRY_ERROR"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeDatabase    = "DATABASE_ERROR"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// NewFetchError classifies a network, timeout or bad-status failure
func NewFetchError(message string, err error) *AppError {
	return NewAppError(ErrCodeFetch, message, err)
}

// NewParseError classifies a malformed feed document
func NewParseError(message string, err error) *AppError {
	return NewAppError(ErrCodeParse, message, err)
}

// NewPersistenceError classifies a genuine store failure, never a duplicate
func NewPersistenceError(message string, err error) *AppError {
	return NewAppError(ErrCodePersistence, message, err)
}

// NewRegistryError classifies a failure to list registered feeds
func NewRegistryError(message string, err error) *AppError {
	return NewAppError(ErrCodeRegistry, message, err)
}

func NewValidationError(message string, err error) *AppError {
	return NewAppError(ErrCodeValidation, message, err)
}

func NewNotFoundError(message string, err error) *AppError {
	return NewAppError(ErrCodeNotFound, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return NewAppError(ErrCodeDatabase, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return NewAppError(ErrCodeInternal, message, err)
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ErrorResponse represents an error response for API endpoints
type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

// GetHTTPStatusCode returns the HTTP status code for an error
func GetHTTPStatusCode(err *AppError) int {
	switch err.Code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeFetch:
		return http.StatusBadGateway
	case ErrCodeParse:
		return http.StatusUnprocessableEntity
	case ErrCodePersistence, ErrCodeRegistry, ErrCodeDatabase, ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes an error response to an HTTP response writer
func WriteErrorResponse(w http.ResponseWriter, statusCode int, appErr *AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := &ErrorResponse{Error: appErr, Success: false}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleError writes the appropriate HTTP response for an error
func HandleError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError("An unexpected error occurred", err)
	}

	WriteErrorResponse(w, GetHTTPStatusCode(appErr), appErr)
}
