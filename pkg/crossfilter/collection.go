// Package crossfilter maintains coordinated sorted indexes ("dimensions") over a
// shared set of records. Each dimension can carry one predicate; the records
// visible through any dimension are those passing the predicates of every
// dimension of the collection.
//
// A Collection is not safe for concurrent use. Callers serialize access.
package crossfilter

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

// Unbounded asks Bottom for every visible record.
const Unbounded = -1

// ErrDisposed is returned by operations on a dimension after Dispose.
var ErrDisposed = errors.New("dimension has been disposed")

// Collection owns the records and every dimension created on it
type Collection struct {
	records []domain.Record
	dims    []*Dimension
}

// New creates a collection holding the given records.
func New(records ...domain.Record) *Collection {
	c := &Collection{}
	c.records = append(c.records, records...)
	return c
}

// Dimension creates a new unfiltered dimension keyed by key.
func (c *Collection) Dimension(key domain.KeyFunc) *Dimension {
	d := &Dimension{c: c, key: key}
	d.build()
	c.dims = append(c.dims, d)
	return d
}

// Add appends records. Every live dimension indexes them, and a dimension's
// current predicate is applied to them.
func (c *Collection) Add(records ...domain.Record) {
	if len(records) == 0 {
		return
	}
	first := len(c.records)
	c.records = append(c.records, records...)
	for _, d := range c.dims {
		d.extend(first)
	}
}

// Remove deletes every record currently passing all dimension predicates and
// returns how many were removed. Predicates stay installed.
func (c *Collection) Remove() int {
	sel := c.selection()
	removed := int(sel.GetCardinality())
	if removed == 0 {
		return 0
	}

	remap := make([]int, len(c.records))
	kept := make([]domain.Record, 0, len(c.records)-removed)
	for i, r := range c.records {
		if sel.Contains(uint32(i)) {
			remap[i] = -1
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, r)
	}
	c.records = kept

	for _, d := range c.dims {
		d.compact(remap, len(kept))
	}
	return removed
}

// Size returns the number of records, ignoring predicates.
func (c *Collection) Size() int {
	return len(c.records)
}

// selection returns the slots passing every dimension's predicate.
func (c *Collection) selection() *roaring.Bitmap {
	sel := roaring.New()
	sel.AddRange(0, uint64(len(c.records)))
	for _, d := range c.dims {
		if d.mask != nil {
			sel.And(d.mask)
		}
	}
	return sel
}

func (c *Collection) detach(d *Dimension) {
	for i, other := range c.dims {
		if other == d {
			c.dims = append(c.dims[:i], c.dims[i+1:]...)
			return
		}
	}
}
