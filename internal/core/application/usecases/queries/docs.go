// Package queries contains the read side of the service. Handlers depend on
// the reader ports only and never open a unit of work.
package queries

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

func pageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}
