package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a handler name
// that is not registered.
var ErrNotFound = errors.New("handler not found")

// DuplicateNameError reports a Create under a name that is already
// registered. The existing handler is left untouched.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("handler %q already exists", e.Name)
}
