package domain

import (
	"errors"
	"fmt"
)

// DomainError keeps backward compatibility for generic codes.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

// CodeRefreshFailed marks a committed mutation whose follow-up reload failed.
const CodeRefreshFailed = "refresh_failed"

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// InconsistentStateError blocks an operation that would leave a payment
// referencing a booking that no longer exists.
type InconsistentStateError struct {
	BookingID string
	Msg       string
}

func (e InconsistentStateError) Error() string {
	if e.BookingID == "" {
		return "inconsistent state: " + e.Msg
	}
	return fmt.Sprintf("inconsistent state for booking %s: %s", e.BookingID, e.Msg)
}

// NetworkError wraps a transport failure talking to the remote API.
type NetworkError struct {
	Op  string
	Err error
}

func (e NetworkError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e NetworkError) Unwrap() error { return e.Err }

// RemoteError is any non-2xx answer from the remote API. The body is opaque.
type RemoteError struct {
	Op     string
	Status int
	Body   string
}

func (e RemoteError) Error() string {
	msg := fmt.Sprintf("remote returned %d", e.Status)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInconsistentState(err error) bool {
	var target InconsistentStateError
	return errors.As(err, &target)
}

func IsNetwork(err error) bool {
	var target NetworkError
	return errors.As(err, &target)
}

func IsRemote(err error) bool {
	var target RemoteError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// IsRefreshFailed reports whether err is a reload failure after a committed mutation.
func IsRefreshFailed(err error) bool {
	var target DomainError
	return errors.As(err, &target) && target.Code == CodeRefreshFailed
}
