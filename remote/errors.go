package remote

import "fmt"

// ErrNotFound is an error about an item missing on the media server.
type ErrNotFound struct {
	// ID is the ID of the missing item.
	ID string
}

// Error returns the string representation of the error.
func (enf *ErrNotFound) Error() string {
	return fmt.Sprintf("item %s not found", enf.ID)
}

// ErrUnexpectedStatus is an error about a non-2xx media server response.
type ErrUnexpectedStatus struct {
	// URL is the requested URL.
	URL string
	// Code is the HTTP status code.
	Code int
}

// Error returns the string representation of the error.
func (eus *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("non-2xx status code %d for %s", eus.Code, eus.URL)
}
