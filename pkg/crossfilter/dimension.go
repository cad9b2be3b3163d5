package crossfilter

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

// Dimension is a sorted index over one derived key of every record.
type Dimension struct {
	c   *Collection
	key domain.KeyFunc

	keys  []interface{} // slot -> key
	order []uint32      // slots in ascending key order, ties by slot

	pred domain.Predicate
	mask *roaring.Bitmap // slots passing pred, nil when unfiltered

	disposed bool
}

// Filter installs p, replacing any previous predicate. A nil p clears the filter.
func (d *Dimension) Filter(p domain.Predicate) error {
	if d.disposed {
		return ErrDisposed
	}
	if p == nil {
		d.pred, d.mask = nil, nil
		return nil
	}
	d.pred = p
	d.mask = d.match(p)
	return nil
}

// FilterAll clears the predicate.
func (d *Dimension) FilterAll() error {
	return d.Filter(nil)
}

// Filtered reports whether a predicate is installed.
func (d *Dimension) Filtered() bool {
	return d.pred != nil
}

// Bottom returns up to n records visible through the collection's combined
// filter, in ascending key order. Pass Unbounded for all of them.
func (d *Dimension) Bottom(n int) ([]domain.Record, error) {
	if d.disposed {
		return nil, ErrDisposed
	}
	sel := d.c.selection()
	size := int(sel.GetCardinality())
	if n >= 0 && n < size {
		size = n
	}

	out := make([]domain.Record, 0, size)
	for _, slot := range d.order {
		if len(out) == size {
			break
		}
		if sel.Contains(slot) {
			out = append(out, d.c.records[slot])
		}
	}
	return out, nil
}

// Dispose detaches the dimension from its collection. Its predicate no longer
// restricts the collection.
func (d *Dimension) Dispose() error {
	if d.disposed {
		return ErrDisposed
	}
	d.c.detach(d)
	d.disposed = true
	d.keys, d.order, d.pred, d.mask = nil, nil, nil, nil
	return nil
}

func (d *Dimension) build() {
	n := len(d.c.records)
	d.keys = make([]interface{}, n)
	d.order = make([]uint32, n)
	for i, r := range d.c.records {
		d.keys[i] = d.key(r)
		d.order[i] = uint32(i)
	}
	d.sortSlots(d.order)
}

func (d *Dimension) sortSlots(slots []uint32) {
	sort.SliceStable(slots, func(i, j int) bool {
		return domain.Compare(d.keys[slots[i]], d.keys[slots[j]]) < 0
	})
}

// extend indexes the records stored from slot first onwards.
func (d *Dimension) extend(first int) {
	added := make([]uint32, 0, len(d.c.records)-first)
	for i := first; i < len(d.c.records); i++ {
		d.keys = append(d.keys, d.key(d.c.records[i]))
		added = append(added, uint32(i))
		if d.pred != nil && d.pred.Matches(d.keys[i]) {
			d.mask.Add(uint32(i))
		}
	}
	d.sortSlots(added)

	// merge; on equal keys the older slot stays first
	merged := make([]uint32, 0, len(d.order)+len(added))
	i, j := 0, 0
	for i < len(d.order) && j < len(added) {
		if domain.Compare(d.keys[added[j]], d.keys[d.order[i]]) < 0 {
			merged = append(merged, added[j])
			j++
		} else {
			merged = append(merged, d.order[i])
			i++
		}
	}
	merged = append(merged, d.order[i:]...)
	merged = append(merged, added[j:]...)
	d.order = merged
}

// compact drops removed slots. remap maps old slots to new ones, -1 if removed.
func (d *Dimension) compact(remap []int, n int) {
	keys := make([]interface{}, 0, n)
	for old, k := range d.keys {
		if remap[old] >= 0 {
			keys = append(keys, k)
		}
	}
	order := make([]uint32, 0, n)
	for _, old := range d.order {
		if s := remap[old]; s >= 0 {
			order = append(order, uint32(s))
		}
	}
	d.keys, d.order = keys, order

	if d.mask != nil {
		mask := roaring.New()
		it := d.mask.Iterator()
		for it.HasNext() {
			if s := remap[it.Next()]; s >= 0 {
				mask.Add(uint32(s))
			}
		}
		d.mask = mask
	}
}

func (d *Dimension) match(p domain.Predicate) *roaring.Bitmap {
	bm := roaring.New()
	switch p := p.(type) {
	case domain.Equals:
		lo, hi := d.span(p.Value, p.Value)
		bm.AddMany(d.order[lo:hi])
	case domain.Range:
		lo, hi := d.span(p.Lo, p.Hi)
		bm.AddMany(d.order[lo:hi])
	default:
		for slot, k := range d.keys {
			if p.Matches(k) {
				bm.Add(uint32(slot))
			}
		}
	}
	return bm
}

// span returns the bounds in order of keys k with lo <= k <= hi.
func (d *Dimension) span(lo, hi interface{}) (int, int) {
	n := len(d.order)
	i := sort.Search(n, func(i int) bool {
		return domain.Compare(d.keys[d.order[i]], lo) >= 0
	})
	j := sort.Search(n, func(j int) bool {
		return domain.Compare(d.keys[d.order[j]], hi) > 0
	})
	if j < i {
		j = i
	}
	return i, j
}
