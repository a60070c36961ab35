// Package errors carries the coded errors returned across bit-insight.
//
// Codes are grouped by the hundred: validation at 100, data and journal at
// 200, indicators at 300, strategies at 400, the backtest engine at 600,
// lifecycle callbacks at 800, aggregation at 900 and the gate at 1000.
//
// No signal and no trade are results, not errors. A fatal code (see IsFatal)
// means the caller handed over broken candles or configuration.
package errors

import (
	"errors"
	"fmt"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and message to cause. GetCode reports the outermost code.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error renders "[code] message" with ": cause" appended when wrapped.
func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode returns the code of the first *Error in err's chain, or
// ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var coded *Error
	if !errors.As(err, &coded) {
		return ErrCodeUnknown
	}

	return coded.Code
}

func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsFatal reports whether err signals broken input or configuration.
// Uncoded errors count as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	code := GetCode(err)
	if code == ErrCodeUnknown {
		return true
	}

	_, fatal := fatalCodes[code]

	return fatal
}
