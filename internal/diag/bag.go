package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag is a bounded list of diagnostics. Diagnostics past the limit are
// counted, not stored.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

// NewBag limits the bag to max items. Zero, negative and anything above
// uint16 mean the uint16 maximum.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil || limit == 0 {
		limit = math.MaxUint16
	}
	return &Bag{max: limit}
}

// Add stores d unless the bag is full and reports whether it did.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int     { return len(b.items) }
func (b *Bag) Cap() uint16  { return b.max }
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the stored diagnostics. Callers must not modify the slice.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Count returns how many stored diagnostics are min or more severe.
func (b *Bag) Count(min Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity.AtLeast(min) {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool {
	return b.Count(SevError) > 0
}

// Merge appends everything other holds, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	total, err := safecast.Conv[uint16](len(b.items) + len(other.items))
	if err != nil {
		total = math.MaxUint16
	}
	b.max = max(b.max, total)
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Sort orders by file and position, then errors before infos, then code.
// Equal keys keep the order the passes reported them in.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
