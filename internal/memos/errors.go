package memos

import "errors"

var (
	// ErrNotFound indicates the memo does not exist or belongs to another user.
	ErrNotFound = errors.New("memo not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
