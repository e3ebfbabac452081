// Package apperr defines the domain error taxonomy shared by services and
// controllers. Services return these; controllers map them to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by login when the email/password pair
// does not match a user.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned by register when the email is already in use.
var ErrEmailTaken = errors.New("user already exists")

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string // "Product", "Order", "User"
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Entity)
}

// NotFound builds a NotFoundError for an entity without exposing the id.
func NotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// NotFoundID builds a NotFoundError that names the missing id.
func NotFoundID(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InsufficientStockError reports that an order line asked for more units
// than the product has available.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.ProductName, e.Available)
}

// IsInsufficientStock reports whether err is (or wraps) an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Validation builds a ValidationError from a field→message map.
func Validation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
