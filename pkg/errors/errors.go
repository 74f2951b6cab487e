package errors

import (
	"fmt"
)

// AppError carries a machine readable code next to the human message
type AppError struct {
	Code    string
	Message string
	Cause   error
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

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnknownFeature     = "UNKNOWN_FEATURE"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeStrategyMismatch   = "STRATEGY_MISMATCH"
	CodeReleased           = "RELEASED"
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeInternalError      = "INTERNAL_ERROR"
)

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. The code of an underlying AppError is kept.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the code of err, or "UNKNOWN" when err is not an AppError
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

func InvalidInput(format string, args ...interface{}) *AppError {
	return Newf(CodeInvalidInput, format, args...)
}

func UnknownFeature(name string) *AppError {
	return Newf(CodeUnknownFeature, "unknown feature %q", name)
}

func InvariantViolation(format string, args ...interface{}) *AppError {
	return Newf(CodeInvariantViolation, format, args...)
}

func StrategyMismatch(format string, args ...interface{}) *AppError {
	return Newf(CodeStrategyMismatch, format, args...)
}

func ConfigInvalid(format string, args ...interface{}) *AppError {
	return Newf(CodeConfigInvalid, format, args...)
}
