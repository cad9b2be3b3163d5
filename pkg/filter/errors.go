package filter

import (
	"errors"
	"fmt"
)

// ErrEmptyRegistry is returned by Get when no index is registered, so no sort
// order can be resolved.
var ErrEmptyRegistry = errors.New("no indexes registered")

// UnknownDimensionError is returned when a filter, sort or delete names an
// index that is not registered.
type UnknownDimensionError struct {
	Name string
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("index %s does not exist", e.Name)
}

// InvalidPredicateError is returned when a filter value cannot be turned into
// a predicate.
type InvalidPredicateError struct {
	Index  string
	Value  interface{}
	Reason string
}

func (e *InvalidPredicateError) Error() string {
	if e.Index == "" {
		return fmt.Sprintf("invalid predicate %#v: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid predicate %#v for index %s: %s", e.Value, e.Index, e.Reason)
}
