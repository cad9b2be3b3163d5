package domain

// Record is a schema-less value indexed by a FilterIndex. Records are shared by
// reference: mutating a record returned from a query changes what later queries see.
type Record map[string]interface{}

// Filters maps a dimension name to the predicate applied to it for one call.
// Values may be a scalar, a 2-element range, a func(interface{}) bool, an
// operator string such as ">=20", or an already built Predicate.
type Filters map[string]interface{}

// KeyFunc projects a record onto the scalar a dimension is sorted by.
// It must return the same value every time it is called on the same record.
type KeyFunc func(Record) interface{}

// FilterEngine defines the operations exposed to the HTTP layer
type FilterEngine interface {
	AddIndex(name string, key KeyFunc) error
	DelIndex(name string) error
	HasIndex(name string) bool
	Indexes() []string
	AddRecords(records ...Record)
	DelRecords(filters Filters) (int, error)
	Get(filters Filters, sortIndex string) ([]Record, error)
	Size() int
}
