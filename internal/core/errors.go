package core

import (
	"errors"
	"fmt"
)

// EntityKind names the entity class an error refers to.
type EntityKind string

const (
	KindOrder      EntityKind = "order"
	KindCake       EntityKind = "cake"
	KindRecipe     EntityKind = "recipe"
	KindIngredient EntityKind = "ingredient"
)

// NotFoundError reports a lookup for an entity that does not exist in the store.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// BrokenReferenceError reports a reference that exists but points at a missing
// entity, e.g. a cake whose recipe was deleted. Distinct from NotFound so callers
// can tell a bad request id from an inconsistent catalog.
type BrokenReferenceError struct {
	From   EntityKind
	FromID string
	To     EntityKind
	ToID   string
}

func (e *BrokenReferenceError) Error() string {
	return fmt.Sprintf("%s %s references %s %s which does not exist", e.From, e.FromID, e.To, e.ToID)
}

// InvalidQuantityError reports a negative or non-numeric quantity where a
// non-negative numeric value is required. Raised at the store-read and
// request-input boundaries rather than coerced silently.
type InvalidQuantityError struct {
	Kind  EntityKind
	ID    string
	Field string
	Value string
}

func (e *InvalidQuantityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: invalid %s %q", e.Kind, e.Field, e.Value)
	}
	return fmt.Sprintf("%s %s: invalid %s %q", e.Kind, e.ID, e.Field, e.Value)
}

// StoreUnavailableError wraps a transient persistence failure. It is the only
// error class callers may retry; all others are deterministic for the same inputs.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsBrokenReference reports whether err is (or wraps) a BrokenReferenceError.
func IsBrokenReference(err error) bool {
	var br *BrokenReferenceError
	return errors.As(err, &br)
}

// IsInvalidQuantity reports whether err is (or wraps) an InvalidQuantityError.
func IsInvalidQuantity(err error) bool {
	var iq *InvalidQuantityError
	return errors.As(err, &iq)
}

// IsStoreUnavailable reports whether err is (or wraps) a StoreUnavailableError.
func IsStoreUnavailable(err error) bool {
	var su *StoreUnavailableError
	return errors.As(err, &su)
}
