package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrForbidden indicates the caller does not own the document.
	ErrForbidden = errors.New("not the document owner")
	// ErrInvalidInput indicates missing or malformed upload fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType indicates a file type outside the allowed set.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge indicates the file exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)
