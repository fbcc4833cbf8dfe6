package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInsufficientAllowance = "INSUFFICIENT_ALLOWANCE"
	CodeGenerationFailed      = "GENERATION_FAILED"
	CodeMalformedModelOutput  = "MALFORMED_MODEL_OUTPUT"
	CodeLogoGenerationFailed  = "LOGO_GENERATION_FAILED"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeStorageFailure        = "STORAGE_FAILURE"
	CodeGenerationInProgress  = "GENERATION_IN_PROGRESS"
	CodeCache                 = "CACHE_ERROR"
	CodeService               = "SERVICE_ERROR"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError by code so callers can use errors.Is with a sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidInput          = &AppError{Code: CodeInvalidInput}
	ErrInsufficientAllowance = &AppError{Code: CodeInsufficientAllowance}
	ErrGenerationFailed      = &AppError{Code: CodeGenerationFailed}
	ErrMalformedModelOutput  = &AppError{Code: CodeMalformedModelOutput}
	ErrLogoGenerationFailed  = &AppError{Code: CodeLogoGenerationFailed}
	ErrUnauthorized          = &AppError{Code: CodeUnauthorized}
	ErrForbidden             = &AppError{Code: CodeForbidden}
	ErrNotFound              = &AppError{Code: CodeNotFound}
	ErrStorageFailure        = &AppError{Code: CodeStorageFailure}
	ErrGenerationInProgress  = &AppError{Code: CodeGenerationInProgress}
)

func NewInvalidInput(message, field string, value any) *AppError {
	return NewAppError(message, CodeInvalidInput, http.StatusBadRequest, map[string]any{
		"field": field,
		"value": value,
	})
}

func NewInsufficientAllowance(identity string, balance int64) *AppError {
	return NewAppError("insufficient generation allowance", CodeInsufficientAllowance, http.StatusPaymentRequired, map[string]any{
		"identity": identity,
		"balance":  balance,
	})
}

func NewGenerationFailed(provider string, cause error) *AppError {
	return NewAppError("layout generation failed", CodeGenerationFailed, http.StatusBadGateway, map[string]any{
		"provider": provider,
	}).WithCause(cause)
}

func NewMalformedModelOutput(snippet string, cause error) *AppError {
	return NewAppError("model output is not valid JSON", CodeMalformedModelOutput, http.StatusBadGateway, map[string]any{
		"snippet": snippet,
	}).WithCause(cause)
}

// NewLogoGenerationFailed is a soft failure; it is logged and never surfaced to callers.
func NewLogoGenerationFailed(brand string, cause error) *AppError {
	return NewAppError("logo generation failed", CodeLogoGenerationFailed, http.StatusOK, map[string]any{
		"brand": brand,
	}).WithCause(cause)
}

func NewUnauthorized(message string) *AppError {
	return NewAppError(message, CodeUnauthorized, http.StatusUnauthorized, nil)
}

func NewForbidden(resource, id string) *AppError {
	return NewAppError("access denied", CodeForbidden, http.StatusForbidden, map[string]any{
		"resource": resource,
		"id":       id,
	})
}

func NewNotFound(resource, id string) *AppError {
	return NewAppError(resource+" not found", CodeNotFound, http.StatusNotFound, map[string]any{
		"resource": resource,
		"id":       id,
	})
}

func NewStorageFailure(operation string, cause error) *AppError {
	return NewAppError("storage operation failed", CodeStorageFailure, http.StatusInternalServerError, map[string]any{
		"operation": operation,
	}).WithCause(cause)
}

func NewGenerationInProgress(sessionID string) *AppError {
	return NewAppError("a generation is already in progress", CodeGenerationInProgress, http.StatusConflict, map[string]any{
		"session": sessionID,
	})
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// As returns the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	var cacheErr *CacheError
	if stderrors.As(err, &cacheErr) {
		return cacheErr.AppError, true
	}
	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr.AppError, true
	}
	return nil, false
}

// CodeOf returns the error code carried by err, or CodeService for foreign errors.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeService
}

// StatusOf maps err to an HTTP status code.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
