// Package errors provides standardized error types and helpers for the Inkwell codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrIndexOutOfRange indicates a character offset outside the valid range
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrOrphaned indicates a node detached from its expected parent
	ErrOrphaned = errors.New("orphaned node")
	// ErrDuplicateName indicates an anchor name that already exists
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidArgument indicates invalid input or validation failure
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
)

// IndexError represents an out-of-range character offset with context
type IndexError struct {
	Op     string // Operation being performed (e.g., "insert", "remove", "split")
	Index  int    // Offset that failed validation
	Length int    // Valid length of the target at the time of the call
	Err    error  // Underlying error, if any
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range for length %d", e.Op, e.Index, e.Length)
}

func (e *IndexError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrIndexOutOfRange
}

// OrphanError represents a run or paragraph detached from its expected parent
type OrphanError struct {
	Kind string // Kind of node (e.g., "run", "paragraph")
	Name string // Identifier of the node, if it has one
	Err  error  // Underlying error, if any
}

func (e *OrphanError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("orphaned %s: %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("orphaned %s", e.Kind)
}

func (e *OrphanError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrOrphaned
}

// DuplicateNameError represents an anchor name collision
type DuplicateNameError struct {
	Name string // Name that already exists
	Err  error  // Underlying error, if any
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name: %s", e.Name)
}

func (e *DuplicateNameError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDuplicateName
}

// ArgumentError represents an input validation error with context
type ArgumentError struct {
	Field   string // Argument name that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *ArgumentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidArgument
}

// NotFoundError represents a missing resource with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "bookmark", "document", "paragraph")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// Helper functions for creating common errors

// NewIndex creates an IndexError
func NewIndex(op string, index, length int) *IndexError {
	return &IndexError{
		Op:     op,
		Index:  index,
		Length: length,
	}
}

// NewOrphan creates an OrphanError
func NewOrphan(kind, name string) *OrphanError {
	return &OrphanError{
		Kind: kind,
		Name: name,
	}
}

// NewDuplicateName creates a DuplicateNameError
func NewDuplicateName(name string) *DuplicateNameError {
	return &DuplicateNameError{
		Name: name,
	}
}

// NewArgument creates an ArgumentError
func NewArgument(field, message string) *ArgumentError {
	return &ArgumentError{
		Field:   field,
		Message: message,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
