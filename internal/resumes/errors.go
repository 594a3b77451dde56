package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or belongs to another user.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGuidelineFormat indicates the model's guideline response could not
	// be parsed into exactly three well-formed guideline strings.
	ErrGuidelineFormat = errors.New("guideline response format invalid")

	// ErrUpstream indicates an embedding, vector-index, or completion call
	// failed. Nothing is persisted when generation hits this.
	ErrUpstream = errors.New("upstream service unavailable")
)
