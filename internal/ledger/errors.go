package ledger

import "fmt"

// ValidationError reports malformed or unresolvable input, such as a
// creator id that matches no stored user. It maps to a 400 at the boundary.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StoreError wraps an unexpected persistence failure with the operation
// that was attempted, keeping the underlying message for diagnostics.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
