package progress

import "fmt"

// ValidationError reports bad caller input. It is returned before any storage
// access, so a validation failure never leaves partial state behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure from the persistence layer. Saves are
// retryable; a same-day retry lands on the no-op branch of the streak
// transition.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// GoalError carries a per-goal recompute failure. Goal failures are isolated:
// they are reported alongside the successful parts of a save, never rolled
// into an all-or-nothing failure.
type GoalError struct {
	GoalID uint   `json:"goal_id"`
	Reason string `json:"reason"`
}

func (e GoalError) Error() string {
	return fmt.Sprintf("goal %d: %s", e.GoalID, e.Reason)
}
