package plugin

import "fmt"

// ModifyTransformConfig is fired once per resolution with the assembled base
// configuration. Fragments returned by handlers are merged last-write-wins.
const ModifyTransformConfig = "modifyBabelrc"

// ExtensionError records a failure inside one extension.
type ExtensionError struct {
	// Extension identifies which extension failed (name@version).
	Extension string

	// Event is the event being handled.
	Event string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ExtensionError) Error() string {
	return fmt.Sprintf("extension %s failed during %s: %v", e.Extension, e.Event, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtensionError) Unwrap() error {
	return e.Err
}

// NewExtensionError creates an ExtensionError.
func NewExtensionError(extension, event string, err error) *ExtensionError {
	return &ExtensionError{
		Extension: extension,
		Event:     event,
		Err:       err,
	}
}
