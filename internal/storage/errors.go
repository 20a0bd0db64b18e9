package storage

import "fmt"

// WriteError reports a failed save of one tool definition.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write tool %q: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// InvalidConfigError reports a stored record that is not a valid tool definition.
type InvalidConfigError struct {
	Source string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid tool configuration in %s: %s", e.Source, e.Reason)
}

// ListError reports a failed enumeration of stored tools.
type ListError struct {
	Location string
	Err      error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to load tools from %s: %v", e.Location, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

// DeleteError reports a failed removal of one tool definition.
type DeleteError struct {
	Name string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete tool %q: %v", e.Name, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
