package analysis

import "errors"

// Validation errors are recoverable request problems; anything else that
// surfaces from the pipeline is fatal for the request and propagates
// unmodified.
var (
	// ErrInvalidRange indicates a segment end earlier than its start
	ErrInvalidRange = errors.New("segment end cannot be earlier than segment start")

	// ErrEmptySegment indicates a requested segment resolving to zero samples
	ErrEmptySegment = errors.New("segment is empty or out of bounds")

	// ErrTooShort indicates audio with too few samples for reliable analysis
	ErrTooShort = errors.New("audio is too short for analysis")
)

// IsValidation reports whether err is a recoverable validation error rather
// than an internal failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrEmptySegment) ||
		errors.Is(err, ErrTooShort)
}
