package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCodeNotFound indicates the referenced access code is not on the device.
var ErrCodeNotFound = errors.New("access code not found on device")

// ErrDuplicateCode indicates the device already holds this code value.
var ErrDuplicateCode = errors.New("access code already exists on device")

// AuthError indicates authentication with the Wyze cloud failed. It is
// fatal for the run: no device operation can proceed without a session.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wyze authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError is a non-auth error response from the Wyze cloud.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wyze api error (status %d, code %s): %s", e.Status, e.Code, e.Message)
}

// Transient reports whether the error is worth retrying: network errors,
// server errors, and rate limiting. Anything else (bad request, missing
// permission) will not heal by itself.
func Transient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 || apiErr.Status == 429
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	if errors.Is(err, ErrCodeNotFound) || errors.Is(err, ErrDuplicateCode) {
		return false
	}
	// Transport-level failures (timeouts, resets) arrive as plain errors.
	return err != nil
}

// AccessCode is a code slot as reported by the device.
type AccessCode struct {
	// ID is the device-side slot identifier.
	ID string
	// Code is the 4-digit access code value.
	Code string
	// Name is the device-side label, e.g. "Guest_6354".
	Name string
	// Begin and End delimit the activation window.
	Begin time.Time
	End   time.Time
}

// Client is the device API surface the gateway needs. Implemented by the
// Wyze cloud client and mocked in core/lock/mocks for tests.
type Client interface {
	// ListAccessCodes returns all code slots currently on the lock.
	ListAccessCodes(ctx context.Context) ([]AccessCode, error)

	// CreateAccessCode provisions a new temporary code with the given
	// activation window. Returns ErrDuplicateCode if the value is taken.
	CreateAccessCode(ctx context.Context, code, name string, begin, end time.Time) error

	// UpdateAccessCode adjusts the window and label of an existing slot
	// without changing the code value. Returns ErrCodeNotFound if the slot
	// is gone.
	UpdateAccessCode(ctx context.Context, id, code, name string, begin, end time.Time) error

	// DeleteAccessCode removes a slot. Returns ErrCodeNotFound if it is
	// already gone.
	DeleteAccessCode(ctx context.Context, id string) error
}
