// Package filter provides FilterIndex, an in-memory record set that can be
// queried along several named indexes at once.
//
// Every Get and DelRecords call resets the filter of every index and applies
// only the predicates of the supplied filter map, so calls never observe
// predicates left over from a previous call.
package filter

import (
	"fmt"
	"sync"

	"github.com/adfharrison1/go-filter/pkg/crossfilter"
	"github.com/adfharrison1/go-filter/pkg/domain"
)

var _ domain.FilterEngine = (*FilterIndex)(nil)

// FilterIndex implements domain.FilterEngine
type FilterIndex struct {
	mu    sync.RWMutex
	cf    *crossfilter.Collection
	dims  map[string]*crossfilter.Dimension
	names []string // registration order

	seed []domain.Record
	defs []indexDef
}

// New creates a FilterIndex from the given options.
func New(options ...Option) (*FilterIndex, error) {
	fi := &FilterIndex{
		dims: make(map[string]*crossfilter.Dimension),
	}
	for _, option := range options {
		option(fi)
	}

	fi.cf = crossfilter.New(fi.seed...)
	for _, def := range fi.defs {
		if err := fi.addIndexLocked(def.name, def.key); err != nil {
			return nil, err
		}
	}
	fi.seed, fi.defs = nil, nil

	return fi, nil
}

// AddIndex registers an index named name keyed by key. An existing index with
// the same name is disposed first; the replacement starts unfiltered.
func (fi *FilterIndex) AddIndex(name string, key domain.KeyFunc) error {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	return fi.addIndexLocked(name, key)
}

func (fi *FilterIndex) addIndexLocked(name string, key domain.KeyFunc) error {
	if name == "" {
		return fmt.Errorf("index name cannot be empty")
	}
	if key == nil {
		return fmt.Errorf("index %s has no key function", name)
	}

	if old, exists := fi.dims[name]; exists {
		if err := old.Dispose(); err != nil {
			return fmt.Errorf("failed to dispose index %s: %w", name, err)
		}
		fi.dims[name] = fi.cf.Dimension(key)
		return nil
	}

	fi.dims[name] = fi.cf.Dimension(key)
	fi.names = append(fi.names, name)
	return nil
}

// DelIndex disposes the index named name. It returns an
// *UnknownDimensionError if no such index exists.
func (fi *FilterIndex) DelIndex(name string) error {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	dim, exists := fi.dims[name]
	if !exists {
		return &UnknownDimensionError{Name: name}
	}
	if err := dim.Dispose(); err != nil {
		return fmt.Errorf("failed to dispose index %s: %w", name, err)
	}
	delete(fi.dims, name)
	for i, n := range fi.names {
		if n == name {
			fi.names = append(fi.names[:i], fi.names[i+1:]...)
			break
		}
	}
	return nil
}

// HasIndex reports whether an index named name is registered.
func (fi *FilterIndex) HasIndex(name string) bool {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	_, exists := fi.dims[name]
	return exists
}

// Indexes returns the registered index names in registration order.
func (fi *FilterIndex) Indexes() []string {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return append([]string(nil), fi.names...)
}

// AddRecords inserts records. Every index picks them up.
func (fi *FilterIndex) AddRecords(records ...domain.Record) {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.cf.Add(records...)
}

// DelRecords removes every record matching all predicates in filters and
// returns how many were removed. A nil or empty map removes every record.
func (fi *FilterIndex) DelRecords(filters domain.Filters) (int, error) {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	if err := fi.applyLocked(filters); err != nil {
		return 0, err
	}
	return fi.cf.Remove(), nil
}

// Get returns the records matching all predicates in filters, in ascending
// order of the sortIndex key. An empty sortIndex sorts by the first registered
// index.
//
// The returned slice is new, but its records are shared with the index:
// changing a record's fields is visible to later calls.
func (fi *FilterIndex) Get(filters domain.Filters, sortIndex string) ([]domain.Record, error) {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	if len(fi.names) == 0 {
		return nil, ErrEmptyRegistry
	}

	sortName := sortIndex
	if sortName == "" {
		sortName = fi.names[0]
	}
	sortDim, exists := fi.dims[sortName]
	if !exists {
		return nil, &UnknownDimensionError{Name: sortName}
	}

	if err := fi.applyLocked(filters); err != nil {
		return nil, err
	}
	return sortDim.Bottom(crossfilter.Unbounded)
}

// Size returns the number of records, regardless of any filter.
func (fi *FilterIndex) Size() int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return fi.cf.Size()
}

// applyLocked installs the predicates of filters and clears every other
// index. Nothing is changed if any entry is invalid.
func (fi *FilterIndex) applyLocked(filters domain.Filters) error {
	preds := make(map[string]domain.Predicate, len(filters))
	for name, value := range filters {
		if _, exists := fi.dims[name]; !exists {
			return &UnknownDimensionError{Name: name}
		}
		p, err := Normalize(value)
		if err != nil {
			if ipe, ok := err.(*InvalidPredicateError); ok {
				ipe.Index = name
			}
			return err
		}
		preds[name] = p
	}

	// registered dimensions are never disposed, so Filter cannot fail here
	// and every dimension is updated or none is
	for _, name := range fi.names {
		if err := fi.dims[name].Filter(preds[name]); err != nil {
			return fmt.Errorf("failed to filter index %s: %w", name, err)
		}
	}
	return nil
}
