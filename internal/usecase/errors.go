package usecase

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindNotApproved
	KindCapacity
	KindInvalidStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindNotApproved:
		return "not_approved"
	case KindCapacity:
		return "capacity"
	case KindInvalidStatus:
		return "invalid_status"
	default:
		return "internal"
	}
}

// Error is the failure type every service operation returns. Code is the
// stable machine-readable identifier shown to API clients.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Fields: fields}
}

func NotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func AuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: "FORBIDDEN", Message: message}
}

func NotApprovedError() *Error {
	return &Error{Kind: KindNotApproved, Code: "LOCATION_NOT_APPROVED", Message: "location is not approved for booking"}
}

func CapacityError(message string) *Error {
	return &Error{Kind: KindCapacity, Code: "NO_CAPACITY", Message: message}
}

func InvalidStatusError(message string) *Error {
	return &Error{Kind: KindInvalidStatus, Code: "INVALID_STATUS", Message: message}
}

func InternalError(operation string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: operation + " failed", Err: err}
}

// KindOf reports the kind of err, treating anything that is not an *Error as
// internal.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// asError returns err unchanged when it already carries a kind, otherwise it
// wraps it as an internal failure of operation.
func asError(operation string, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return InternalError(operation, err)
}
