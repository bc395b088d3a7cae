package entities

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a draft id that does not exist in the store.
type NotFoundError struct {
	DraftID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("draft not found: %s", e.DraftID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidTransitionError indicates a (status, event) pair the lifecycle
// table does not allow. The draft is left untouched.
type InvalidTransitionError struct {
	Status Status
	Event  Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s not allowed in status %s", e.Event, e.Status)
}

// IsInvalidTransition reports whether err is (or wraps) an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}

// GenerationKind identifies which generator failed.
type GenerationKind string

const (
	GenerationText  GenerationKind = "text"
	GenerationImage GenerationKind = "image"
)

// GenerationError indicates an external generation call that exhausted its
// retries or failed permanently. The draft keeps its last-good content.
type GenerationError struct {
	Kind GenerationKind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGeneration reports whether err is (or wraps) a GenerationError.
func IsGeneration(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
