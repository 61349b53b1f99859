package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeAccountNotActive   ErrorCode = "ACCOUNT_NOT_ACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeUnknownPermission  ErrorCode = "UNKNOWN_PERMISSION"

	ErrCodeApprovalNotFound ErrorCode = "APPROVAL_NOT_FOUND"
	ErrCodeAlreadyDecided   ErrorCode = "ALREADY_DECIDED"
	ErrCodeCommentRequired  ErrorCode = "COMMENT_REQUIRED"
	ErrCodeUnknownKind      ErrorCode = "UNKNOWN_APPROVAL_KIND"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeMemberNotFound     ErrorCode = "MEMBER_NOT_FOUND"
	ErrCodeOfficerNotFound    ErrorCode = "OFFICER_NOT_FOUND"
	ErrCodePraesidiumNotFound ErrorCode = "PRAESIDIUM_NOT_FOUND"
	ErrCodeAlertNotFound      ErrorCode = "ALERT_NOT_FOUND"

	ErrCodeForbiddenScope     ErrorCode = "FORBIDDEN_SCOPE"
	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
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

// WithCause returns a copy carrying the cause. The receiver is left
// untouched so the shared sentinel errors stay immutable.
func (e *AppError) WithCause(cause error) *AppError {
	copied := *e
	copied.Cause = cause
	return &copied
}

// WithDetails returns a copy carrying the details. The receiver is left
// untouched so the shared sentinel errors stay immutable.
func (e *AppError) WithDetails(details interface{}) *AppError {
	copied := *e
	copied.Details = details
	return &copied
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrAccountNotActive   = NewForbiddenError("account is not active", ErrCodeAccountNotActive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)

	ErrApprovalNotFound = NewNotFoundError("approval request not found", ErrCodeApprovalNotFound)
	ErrAlreadyDecided   = NewConflictError("approval request already decided", ErrCodeAlreadyDecided)
	ErrCommentRequired  = NewValidationError("comment is required when rejecting", ErrCodeCommentRequired)

	ErrUserNotFound       = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrMemberNotFound     = NewNotFoundError("member not found", ErrCodeMemberNotFound)
	ErrOfficerNotFound    = NewNotFoundError("officer not found", ErrCodeOfficerNotFound)
	ErrPraesidiumNotFound = NewNotFoundError("praesidium not found", ErrCodePraesidiumNotFound)
	ErrAlertNotFound      = NewNotFoundError("alert not found", ErrCodeAlertNotFound)

	ErrUnauthorizedAccess = NewForbiddenError("insufficient permissions", ErrCodeUnauthorizedAccess)
	ErrForbiddenScope     = NewForbiddenError("outside of the caller's praesidium scope", ErrCodeForbiddenScope)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
