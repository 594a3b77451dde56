package users

import "errors"

var (
	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQuotaExhausted indicates the user has no chat credits left today.
	ErrQuotaExhausted = errors.New("chat quota exhausted")
)
