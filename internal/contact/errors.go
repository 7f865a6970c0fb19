package contact

import (
	"fmt"

	"github.com/pkg/errors"
)

// Failure kinds reported by Controller.Submit. Match them with errors.Is.
var (
	ErrValidation       = errors.New("validation failure")
	ErrLookup           = errors.New("admin lookup failure")
	ErrNoAdminAvailable = errors.New("no admin available")
	ErrWrite            = errors.New("notification write failure")
)

// Failure is the terminal error of a submission. Kind is one of the Err* sentinels
// and Cause, when present, is the underlying store or validation error.
type Failure struct {
	Kind  error
	Cause error
}

func (f *Failure) Error() string {
	if f.Cause == nil {
		return f.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Cause)
}

func (f *Failure) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Cause}
}

func fail(kind, cause error) *Failure {
	return &Failure{Kind: kind, Cause: cause}
}

// KindOf returns the failure kind carried by err, or nil if err is not a Failure.
func KindOf(err error) error {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return nil
}
