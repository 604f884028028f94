package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced by the service.
const (
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeMissingToken         = "MISSING_TOKEN"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeProxyUnreachable     = "PROXY_UNREACHABLE"
	CodeProxyUpstreamError   = "PROXY_UPSTREAM_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, err error) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

func NewValidationError(message string) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, nil)
}

func NewUnsupportedMediaType() error {
	return NewDomainError(CodeUnsupportedMediaType, "Content-Type must be application/json", http.StatusUnsupportedMediaType, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "Invalid username or password", http.StatusUnauthorized, nil)
}

func NewMissingToken() error {
	return NewDomainError(CodeMissingToken, "Authentication token is missing", http.StatusUnauthorized, nil)
}

// NewInvalidToken hides the verification failure subtype behind one message.
func NewInvalidToken(err error) error {
	return NewDomainError(CodeInvalidToken, "Authentication token is invalid", http.StatusUnauthorized, err)
}

func NewProxyUnreachable(err error) error {
	return NewDomainError(CodeProxyUnreachable, "Catalog service is unreachable", http.StatusBadGateway, err)
}

// NewProxyUpstreamError propagates the upstream status and message.
func NewProxyUpstreamError(status int, message string, err error) error {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	if message == "" {
		message = "Upstream catalog request failed"
	}
	return NewDomainError(CodeProxyUpstreamError, message, status, err)
}

func NewNotFound(message string) error {
	return NewDomainError(CodeNotFound, message, http.StatusNotFound, nil)
}

func NewInternalError(err error) error {
	return NewDomainError(CodeInternalError, "internal server error", http.StatusInternalServerError, err)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
