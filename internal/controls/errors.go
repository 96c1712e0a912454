package controls

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned for control names that were never registered.
	ErrNotFound = errors.New("control not found")
	// ErrInvalidSettings matches every *ValidationError.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrNoSelection is returned by renderers when the form selects nothing.
	ErrNoSelection = errors.New("nothing selected")
)

// ValidationError identifies the control that rejected a settings value.
type ValidationError struct {
	Control string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid settings for %s", e.Control)
	}
	return fmt.Sprintf("invalid settings for %s: %s", e.Control, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSettings
}
