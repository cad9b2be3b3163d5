package filter

import (
	"sort"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

type indexDef struct {
	name string
	key  domain.KeyFunc
}

// Option configures a FilterIndex at construction
type Option func(*FilterIndex)

// WithRecords seeds the index with records.
func WithRecords(records ...domain.Record) Option {
	return func(fi *FilterIndex) {
		fi.seed = append(fi.seed, records...)
	}
}

// WithIndex registers a named index. Indexes are registered in option order,
// the first one being the default sort order of Get.
func WithIndex(name string, key domain.KeyFunc) Option {
	return func(fi *FilterIndex) {
		fi.defs = append(fi.defs, indexDef{name: name, key: key})
	}
}

// WithIndexes registers every index of the map, in ascending name order.
func WithIndexes(indexes map[string]domain.KeyFunc) Option {
	return func(fi *FilterIndex) {
		names := make([]string, 0, len(indexes))
		for name := range indexes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fi.defs = append(fi.defs, indexDef{name: name, key: indexes[name]})
		}
	}
}
