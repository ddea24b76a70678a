package blobstore

import (
	"errors"
	"fmt"
	"strings"
)

// Error types
var (
	// ErrObjectNotFound indicates the key does not exist in the backend.
	ErrObjectNotFound = errors.New("object not found")
)

// PartialDeleteError reports a best-effort bulk delete that removed some
// keys but not others. Failed holds exactly the keys still present;
// Reasons, when the backend supplies them, maps each failed key to its
// cause. Callers retry only the failed subset.
type PartialDeleteError struct {
	Failed  []string
	Reasons map[string]error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("bulk delete left %d keys: %s", len(e.Failed), strings.Join(e.Failed, ", "))
}

// StorageError wraps a failed storage operation with its key and operation
// name.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
