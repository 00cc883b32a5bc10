package sticks

import (
	"syscall"

	"github.com/g4stly/sticks/internal/errs"
)

// Error and ErrorCode are re-exported so callers embedding a Server can
// inspect failures with errors.As without reaching into internal packages.
type (
	Error     = errs.Error
	ErrorCode = errs.ErrorCode
)

const (
	ErrCodeRoomNotFound  = errs.ErrCodeRoomNotFound
	ErrCodeRoomFull      = errs.ErrCodeRoomFull
	ErrCodeBadOpcode     = errs.ErrCodeBadOpcode
	ErrCodePeerGone      = errs.ErrCodePeerGone
	ErrCodeRingExhausted = errs.ErrCodeRingExhausted
	ErrCodeListenerSetup = errs.ErrCodeListenerSetup
	ErrCodeInvalidParams = errs.ErrCodeInvalidParams
	ErrCodeIOError       = errs.ErrCodeIOError
)

// NewError creates a structured error with no underlying errno.
func NewError(op string, code ErrorCode, msg string) *Error { return errs.New(op, code, msg) }

// NewErrorWithErrno creates a structured error carrying a kernel errno.
func NewErrorWithErrno(op string, code ErrorCode, errno syscall.Errno) *Error {
	return errs.NewWithErrno(op, code, errno)
}

// WrapError wraps an existing error with relay-server context.
func WrapError(op string, inner error) *Error { return errs.Wrap(op, inner) }

// IsCode reports whether err is a *Error with the given category.
func IsCode(err error, code ErrorCode) bool { return errs.IsCode(err, code) }

// IsErrno reports whether err is a *Error carrying the given errno.
func IsErrno(err error, errno syscall.Errno) bool { return errs.IsErrno(err, errno) }
