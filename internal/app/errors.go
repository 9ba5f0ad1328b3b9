package app

import (
	"errors"
	"fmt"
)

// ErrUnsupported marks an activation that has no defined behavior yet,
// such as a custom query on a category node.
var ErrUnsupported = errors.New("unsupported operation")

// ErrConnection represents a failure to open the database file.
type ErrConnection struct {
	Path  string
	Cause error
}

func (e *ErrConnection) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("connection error: %v", e.Cause)
	}
	return fmt.Sprintf("connection error: %s: %v", e.Path, e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

// ErrSchema represents a schema introspection failure. Table is empty
// when listing tables failed.
type ErrSchema struct {
	Table string
	Cause error
}

func (e *ErrSchema) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema error: %v", e.Cause)
	}
	return fmt.Sprintf("schema error: %s: %v", e.Table, e.Cause)
}

func (e *ErrSchema) Unwrap() error {
	return e.Cause
}

// ErrQuery represents a query execution error.
type ErrQuery struct {
	Query string
	Cause error
}

func (e *ErrQuery) Error() string {
	return fmt.Sprintf("query error: %v", e.Cause)
}

func (e *ErrQuery) Unwrap() error {
	return e.Cause
}

// ErrDisplay represents a failure to render a result. It is never fatal.
type ErrDisplay struct {
	Cause error
}

func (e *ErrDisplay) Error() string {
	return fmt.Sprintf("display error: %v", e.Cause)
}

func (e *ErrDisplay) Unwrap() error {
	return e.Cause
}

// ErrConfig represents a configuration error.
type ErrConfig struct {
	Cause error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ErrConfig) Unwrap() error {
	return e.Cause
}
