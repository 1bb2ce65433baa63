package timeslot

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrInvalidCatalog = errors.New("invalid slot catalog")

// DefaultSlotWidth is the width of every bookable slot.
const DefaultSlotWidth = 2 * time.Hour

// Catalog is the ordered set of bookable slots of a day. Slots never overlap.
type Catalog struct {
	slots []Interval
}

func NewCatalog(starts []Clock, width time.Duration) (Catalog, error) {
	if len(starts) == 0 {
		return Catalog{}, fmt.Errorf("%w: no slots", ErrInvalidCatalog)
	}
	if width < time.Minute || width%time.Minute != 0 {
		return Catalog{}, fmt.Errorf("%w: width %s", ErrInvalidCatalog, width)
	}

	sorted := append([]Clock(nil), starts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	w := Clock(width / time.Minute)
	slots := make([]Interval, 0, len(sorted))
	for _, s := range sorted {
		iv, err := NewInterval(s, s+w)
		if err != nil {
			return Catalog{}, fmt.Errorf("%w: slot at %s", ErrInvalidCatalog, s)
		}
		if n := len(slots); n > 0 && Overlaps(slots[n-1], iv) {
			return Catalog{}, fmt.Errorf("%w: slots %s and %s overlap", ErrInvalidCatalog, slots[n-1], iv)
		}
		slots = append(slots, iv)
	}
	return Catalog{slots: slots}, nil
}

// DefaultCatalog is 08:00 to 20:00 in two-hour slots.
func DefaultCatalog() Catalog {
	c, err := NewCatalog([]Clock{
		MustClock("08:00"),
		MustClock("10:00"),
		MustClock("12:00"),
		MustClock("14:00"),
		MustClock("16:00"),
		MustClock("18:00"),
	}, DefaultSlotWidth)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Catalog) Len() int { return len(c.slots) }

func (c Catalog) Slots() []Interval {
	return append([]Interval(nil), c.slots...)
}

// Free returns the slots that overlap none of busy, in catalog order.
func (c Catalog) Free(busy []Interval) []Interval {
	out := make([]Interval, 0, len(c.slots))
	for _, s := range c.slots {
		if !s.OverlapsAny(busy) {
			out = append(out, s)
		}
	}
	return out
}

// AnyFree reports whether at least one slot overlaps none of busy.
func (c Catalog) AnyFree(busy []Interval) bool {
	for _, s := range c.slots {
		if !s.OverlapsAny(busy) {
			return true
		}
	}
	return false
}
