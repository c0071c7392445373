// Package services provides domain services that hold business rules which
// don't naturally belong to a single aggregate root.
//
// The package includes:
//   - MessageRenderer: renders workflow notification templates over order facts
//   - BulkEligibility: decides which orders a bulk operation may touch
package services
