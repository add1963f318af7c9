package config

import "fmt"

// ValidationError indicates a scalar field outside its declared bounds or enum.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid settings: %s %s", e.Field, e.Reason)
}

// ParseError indicates the settings file exists but is not a valid YAML mapping.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse settings file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
