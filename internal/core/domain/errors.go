package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested dataset was not found in the visible scope
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuery indicates the free-text query is not a well-formed boolean expression
	ErrInvalidQuery = errors.New("invalid query")

	// ErrImportInProgress indicates another instance holds the import lock
	ErrImportInProgress = errors.New("import already in progress")

	// ErrUnsupportedSchema indicates a feed or contribution uses an unknown schema version
	ErrUnsupportedSchema = errors.New("unsupported schema version")
)
