// Package workflow models administrator-defined automation rules.
//
// A Rule couples a trigger event with a conjunction of Conditions and an
// ordered list of Actions. Conditions are typed field/comparator/value
// triples evaluated against Facts derived from an order snapshot; anything
// that cannot be evaluated counts as a non-match. Actions are a closed set of
// variants (assign, notify, create_task, set_priority) stored as
// {"kind": ..., "params": {...}} documents; stored specs that fail to decode
// become MalformedAction values instead of aborting the load.
package workflow
