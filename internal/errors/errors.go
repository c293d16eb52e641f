package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"
)

type ErrorCode string

const (
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInputNotFound ErrorCode = "INPUT_NOT_FOUND"
	CodeParse         ErrorCode = "PARSE_ERROR"
	CodeConfig        ErrorCode = "CONFIG_ERROR"
	CodeExport        ErrorCode = "EXPORT_ERROR"
)

type AppError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	ExitCode  int       `json:"-"`
	Cause     error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails returns e after attaching a free-form detail string.
func (e *AppError) WithDetails(format string, args ...any) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		ExitCode:  getExitCode(code),
		Timestamp: time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		ExitCode:  getExitCode(code),
		Cause:     err,
		Timestamp: time.Now().UTC(),
	}
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

func InputNotFound(message string) *AppError {
	return New(CodeInputNotFound, message)
}

func InputNotFoundWrap(err error, message string) *AppError {
	return Wrap(err, CodeInputNotFound, message)
}

func Parse(message string) *AppError {
	return New(CodeParse, message)
}

func ParseWrap(err error, message string) *AppError {
	return Wrap(err, CodeParse, message)
}

func ConfigWrap(err error, message string) *AppError {
	return Wrap(err, CodeConfig, message)
}

func ExportWrap(err error, message string) *AppError {
	return Wrap(err, CodeExport, message)
}

// Is reports whether any error in err's chain is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ExitCode maps err to a process exit status. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return getExitCode(CodeInternal)
}

func getExitCode(code ErrorCode) int {
	switch code {
	case CodeInputNotFound:
		return 2
	case CodeParse:
		return 3
	case CodeConfig:
		return 4
	case CodeExport:
		return 5
	default:
		return 1
	}
}

// Log records err on logger with its code and cause as structured attributes.
func Log(logger *slog.Logger, msg string, err error) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = InternalWrap(err, "unexpected failure")
	}

	logger.Error(msg,
		"error_code", appErr.Code,
		"error_message", appErr.Message,
		"details", appErr.Details,
		"exit_code", appErr.ExitCode,
		"cause", appErr.Cause,
	)
}
