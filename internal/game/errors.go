package game

import "fmt"

// LoadError aborts a session before it exists: the chart could not be read or made sense of.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load chart %v: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ConfigurationError is an invariant violation in the inputs of a session.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %v: %v", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %v %q: %v", e.Field, e.Value, e.Reason)
}
