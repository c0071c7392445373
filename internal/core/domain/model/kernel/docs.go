// Package kernel provides the value objects shared across the custom-order
// domain: identifiers (UUID), amounts (Money) and the priority scale used by
// orders and tasks.
//
// All kernel values are immutable and safe for concurrent use. Zero values of
// UUID and Money are invalid and are reported by their Validate methods.
package kernel
