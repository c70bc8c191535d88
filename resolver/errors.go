package resolver

import "fmt"

// ErrInvalidArgument is an error about a caller-supplied argument that violates the operation contract.
type ErrInvalidArgument struct {
	// Argument is the name of the offending argument.
	Argument string
	// Reason is a description of the violation.
	Reason string
}

// Error returns the string representation of the error.
func (eia *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", eia.Argument, eia.Reason)
}
