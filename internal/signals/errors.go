package signals

import (
	"fmt"
	"strings"
)

// ValidationError reports the submission fields that failed validation.
// It is returned before any persistence attempt.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Fields, ", ")
}

// StorageError wraps a store failure surfaced to the caller. No retry is
// attempted at this layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
