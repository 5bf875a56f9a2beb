package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexUnavailable reports that the vector store itself cannot be
	// opened or reached. An empty but reachable index is not an error.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrConfigMismatch reports that the query-time embedding model differs
	// from the one recorded when the index was built.
	ErrConfigMismatch = errors.New("embedding model mismatch between index and query")
)

// MissingFieldError reports a record that lacks a required attribute.
// Such records are skipped and logged during indexing, not fatal to the batch.
type MissingFieldError struct {
	RecordID string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %q: missing required field %q", e.RecordID, e.Field)
}
