package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrApplicantNotFound      = errors.New("applicant not found")
	ErrApplicantAlreadyExists = errors.New("applicant already exists")
	ErrApplicationNotFound    = errors.New("application not found")
	ErrUnknownStatus          = errors.New("status code not in catalog")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeApplicantNotFound      = "APPLICANT_NOT_FOUND"
	ErrCodeApplicantAlreadyExists = "APPLICANT_ALREADY_EXISTS"
	ErrCodeApplicationNotFound    = "APPLICATION_NOT_FOUND"
	ErrCodeUnknownStatus          = "UNKNOWN_STATUS"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapApplicantNotFound(applicantID string) *BusinessError {
	return NewBusinessError(
		ErrCodeApplicantNotFound,
		fmt.Sprintf("Applicant with ID %s not found", applicantID),
		ErrApplicantNotFound,
	)
}

func WrapApplicantAlreadyExists(applicantID string) *BusinessError {
	return NewBusinessError(
		ErrCodeApplicantAlreadyExists,
		fmt.Sprintf("Applicant with ID %s already exists", applicantID),
		ErrApplicantAlreadyExists,
	)
}

func WrapApplicationNotFound(applicationID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeApplicationNotFound,
		fmt.Sprintf("Application with ID %d not found", applicationID),
		ErrApplicationNotFound,
	)
}

func WrapUnknownStatus(statusID int) *BusinessError {
	return NewBusinessError(
		ErrCodeUnknownStatus,
		fmt.Sprintf("Status code %d is not defined in the status catalog", statusID),
		ErrUnknownStatus,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
