package entity

import "errors"

// Domain errors
var (
	// Pipeline errors
	ErrInvalidQuery          = errors.New("invalid query")
	ErrNoRelevantInformation = errors.New("no relevant information")
	ErrGenerationTransient   = errors.New("transient generation failure")
	ErrGenerationFatal       = errors.New("fatal generation failure")
	ErrEmptyGeneration       = errors.New("empty generation response")

	// Index errors
	ErrIndexUnavailable    = errors.New("vector index unavailable")
	ErrIndexExists         = errors.New("vector index already exists")
	ErrEmbeddingMismatch   = errors.New("embedding model mismatch")
	ErrDimensionMismatch   = errors.New("embedding dimension mismatch")
	ErrDuplicateChunk      = errors.New("duplicate chunk")
	ErrReloadNotSupported  = errors.New("index backend does not support reload")
	ErrEmptyDataset        = errors.New("dataset contains no schemes")
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrFormatDisabled   = errors.New("export format not enabled")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// KindOf maps err onto the answer error taxonomy
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrInvalidQuery):
		return ErrorKindInvalidQuery
	case errors.Is(err, ErrNoRelevantInformation):
		return ErrorKindNoRelevantInformation
	case errors.Is(err, ErrGenerationFatal):
		return ErrorKindGenerationFatal
	case errors.Is(err, ErrIndexUnavailable), errors.Is(err, ErrEmbeddingMismatch):
		return ErrorKindIndexUnavailable
	default:
		// anything unclassified from the model boundary is retried once
		return ErrorKindGenerationTransient
	}
}

// IsTransient reports whether a generation error is worth retrying
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == ErrorKindGenerationTransient
}
