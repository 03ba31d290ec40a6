package domain

import "errors"

// Domain failures share a single channel: every operation returns (value, error)
// and callers dispatch with errors.Is. Store/driver failures are wrapped and
// propagate separately from these.
var (
	ErrAuthRequired      = errors.New("user not authenticated")
	ErrForbidden         = errors.New("user not authorized for current operation")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrInvalidToken      = errors.New("invalid session token")
	ErrInvalidInput      = errors.New("invalid input")
)
