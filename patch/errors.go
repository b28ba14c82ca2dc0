package patch

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrModuleLookup      = errors.New("module lookup failed")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrNotCallable       = errors.New("replacement is not callable")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// ModuleLookupError is returned when a module path was never registered.
type ModuleLookupError struct {
	Module string
}

func (e *ModuleLookupError) Error() string {
	return fmt.Sprintf("patch: module %q is not registered", e.Module)
}

// Unwrap returns ErrModuleLookup.
func (e *ModuleLookupError) Unwrap() error { return ErrModuleLookup }

// AttributeNotFoundError is returned when a module has no symbol by that name.
type AttributeNotFoundError struct {
	Module string
	Name   string
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("patch: %s has no attribute %q", e.Module, e.Name)
}

// Unwrap returns ErrAttributeNotFound.
func (e *AttributeNotFoundError) Unwrap() error { return ErrAttributeNotFound }

// NotCallableError is returned when the replacement is nil or not a function.
type NotCallableError struct {
	Type string
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("patch: replacement must be callable, got %s", e.Type)
}

// Unwrap returns ErrNotCallable.
func (e *NotCallableError) Unwrap() error { return ErrNotCallable }

// SignatureMismatchError is returned when the replacement cannot stand in for
// the original.
type SignatureMismatchError struct {
	Name     string
	Original string
	Got      string
}

func (e *SignatureMismatchError) Error() string {
	return fmt.Sprintf("patch: signature mismatch for %s: %s vs original %s", e.Name, e.Got, e.Original)
}

// Unwrap returns ErrSignatureMismatch.
func (e *SignatureMismatchError) Unwrap() error { return ErrSignatureMismatch }
