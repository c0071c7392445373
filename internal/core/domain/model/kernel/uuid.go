package kernel

import (
	"fmt"

	"bitversity/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID or UUIDFromString")

// UUID identifies orders, admins, rules, tasks and notifications.
//
// The zero value is invalid and must be constructed using NewUUID,
// UUIDFromString or UUIDFromBytes. UUID is immutable and safe for
// concurrent use.
//
// Example usage:
//
//	orderID := kernel.NewUUID()
//
//	adminID, err := kernel.UUIDFromString(c.Request().Header.Get("X-Admin-ID"))
//	if err != nil {
//	    return err
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random UUID (version 4).
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses a UUID from its textual form. The nil UUID is
// rejected with ErrUUIDIsNotConstructed.
//
// Example:
//
//	id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//	    return fmt.Errorf("invalid order ID: %w", err)
//	}
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("invalid UUID format: %w", err))
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// UUIDFromBytes creates a UUID from a 16-byte slice.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("invalid UUID format: %w", err))
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// UUIDFromGoogle wraps an already parsed uuid.UUID, as produced by
// request binders and database drivers.
func UUIDFromGoogle(id uuid.UUID) (UUID, error) {
	wrapped := UUID{id: id}
	if err := wrapped.Validate(); err != nil {
		return UUID{}, err
	}
	return wrapped, nil
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID value.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual compares two UUIDs for equality.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsZero reports whether the UUID was never constructed.
func (u UUID) IsZero() bool {
	return u.id == uuid.Nil
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// OptionalUUIDEqual compares two optional identifiers. Two nil values are equal.
func OptionalUUIDEqual(a, b *UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}

// CloneUUID returns a copy of an optional identifier.
func CloneUUID(u *UUID) *UUID {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
