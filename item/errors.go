package item

import "fmt"

// ErrUnknownImageType is an error about an image type name that is not known.
type ErrUnknownImageType struct {
	// Name is the offending name.
	Name string
}

// Error returns the string representation of the error.
func (euit *ErrUnknownImageType) Error() string {
	return fmt.Sprintf("unknown image type %q", euit.Name)
}
