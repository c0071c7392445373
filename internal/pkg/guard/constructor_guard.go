// Package guard detects domain values that were created as Go zero values
// instead of through their constructors.
package guard

import "errors"

var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into value objects. Only NewConstructorGuard
// produces a guard that validates; the zero value always fails.
type ConstructorGuard struct {
	constructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns err, or
// ErrDefaultConstructorGuard when err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.constructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
