package analyses

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrScoring wraps embedding failures while computing similarity or section scores.
	ErrScoring = errors.New("scoring failed")
	// ErrNotFound is returned when a history record or its archived upload is absent.
	ErrNotFound = errors.New("not found")
)

const (
	ErrorCodeValidation        = "validation_error"
	ErrorCodeFileTooLarge      = "file_too_large"
	ErrorCodeUnsupportedFormat = "unsupported_format"
	ErrorCodeExtractionFailed  = "extraction_failed"
	ErrorCodeEmbeddingFailed   = "embedding_failed"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeInternal          = "internal_error"
)
