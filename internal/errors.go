package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeDuplicateKey ErrorType = "DUPLICATE_KEY"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidClient    ErrorCode = "INVALID_CLIENT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeNegativePrice    ErrorCode = "NEGATIVE_PRICE"

	ErrCodeEquipmentNotFound ErrorCode = "EQUIPMENT_NOT_FOUND"
	ErrCodeDuplicateAssetID  ErrorCode = "DUPLICATE_ASSET_ID"
	ErrCodeDuplicateSerial   ErrorCode = "DUPLICATE_SERIAL_NUMBER"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists     ErrorCode = "USER_EXISTS"
	ErrCodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeSelfDelete     ErrorCode = "SELF_DELETE_FORBIDDEN"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeInsufficientRole   ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeResetTokenInvalid  ErrorCode = "RESET_TOKEN_INVALID"
	ErrCodeResetTokenExpired  ErrorCode = "RESET_TOKEN_EXPIRED"
	ErrCodeResetTokenMismatch ErrorCode = "RESET_TOKEN_MISMATCH"
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

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Join() string {
	messages := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		messages[i] = e.Message
	}
	return strings.Join(messages, ". ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewFieldValidationError(fields ...ValidationError) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    ValidationErrors{Errors: fields}.Join(),
		StatusCode: http.StatusBadRequest,
		Details:    ValidationErrors{Errors: fields},
	}
}

// NewDuplicateKeyError reports a unique constraint violation. The message
// names the offending field so clients can surface a field-specific error.
func NewDuplicateKeyError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeDuplicateKey,
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
	ErrEquipmentNotFound = NewNotFoundError("Equipment not found", ErrCodeEquipmentNotFound)
	ErrDuplicateAssetID  = NewDuplicateKeyError("Asset ID already exists. Please use a unique asset ID.", ErrCodeDuplicateAssetID)
	ErrDuplicateSerial   = NewDuplicateKeyError("Serial Number already exists. Please use a unique serial number.", ErrCodeDuplicateSerial)

	ErrUserNotFound   = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrUserExists     = NewDuplicateKeyError("User already exists", ErrCodeUserExists)
	ErrDuplicateEmail = NewDuplicateKeyError("Email already in use", ErrCodeDuplicateEmail)
	ErrSelfDelete     = NewValidationError("Cannot delete your own account", ErrCodeSelfDelete)

	ErrInvalidCredentials = NewValidationError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrMissingToken       = NewUnauthorizedError("No token, authorization denied", ErrCodeMissingToken)
	ErrInvalidToken       = NewValidationError("Token is not valid", ErrCodeInvalidToken)
	ErrInsufficientRole   = NewForbiddenError("Access denied. Insufficient role.", ErrCodeInsufficientRole)

	ErrResetTokenInvalid  = NewValidationError("Invalid or expired reset token", ErrCodeResetTokenInvalid)
	ErrResetTokenExpired  = NewValidationError("Reset token has expired", ErrCodeResetTokenExpired)
	ErrResetTokenMismatch = NewValidationError("Invalid token for this email address", ErrCodeResetTokenMismatch)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
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
