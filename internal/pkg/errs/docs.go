// Package errs holds the error kinds shared by the custom-order service.
//
// Every kind follows the same shape: a sentinel variable, a struct with the
// details of the failure, constructors with and without a cause, and an
// Unwrap method returning the sentinel so callers can classify with errors.Is.
//
// The HTTP adapter maps the families onto status codes:
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: 400
//   - ErrObjectNotFound: 404
//   - ErrIllegalTransition, ErrInvalidState, ErrConcurrentModification: 409
package errs
