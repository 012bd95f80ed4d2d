// Package series provides calendar-year keyed containers used throughout the
// benefit calculation. Every series carries its own [base, last] year range and
// out-of-range access is always reported.
package series

import "fmt"

// YEAR37 is the first year of covered employment.
const YEAR37 = 1937

// RangeError reports an access to a year outside a series' declared range.
// It almost always indicates a calculation-order bug.
type RangeError struct {
	Year int
	Base int
	Last int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("year %d out of range [%d, %d]", e.Year, e.Base, e.Last)
}

// Annual holds one value of type T per calendar year in [base, last].
type Annual[T any] struct {
	base int
	last int
	data []T
}

// NewAnnual allocates a zero-valued series covering [base, last].
func NewAnnual[T any](base, last int) *Annual[T] {
	if last < base {
		last = base - 1
	}
	return &Annual[T]{base: base, last: last, data: make([]T, last-base+1)}
}

// Base returns the first year of the series.
func (a *Annual[T]) Base() int { return a.base }

// Last returns the last year of the series.
func (a *Annual[T]) Last() int { return a.last }

// Contains reports whether year lies within the series range.
func (a *Annual[T]) Contains(year int) bool {
	return year >= a.base && year <= a.last
}

func (a *Annual[T]) check(year int) error {
	if !a.Contains(year) {
		return &RangeError{Year: year, Base: a.base, Last: a.last}
	}
	return nil
}

// Get returns the value for year, or a *RangeError.
func (a *Annual[T]) Get(year int) (T, error) {
	if err := a.check(year); err != nil {
		var zero T
		return zero, err
	}
	return a.data[year-a.base], nil
}

// At returns the value for year. It panics with *RangeError when year is out
// of range; the calculation coordinator converts that panic into an error.
func (a *Annual[T]) At(year int) T {
	if err := a.check(year); err != nil {
		panic(err)
	}
	return a.data[year-a.base]
}

// Set stores v for year. It panics with *RangeError when year is out of range.
func (a *Annual[T]) Set(year int, v T) {
	if err := a.check(year); err != nil {
		panic(err)
	}
	a.data[year-a.base] = v
}

// Fill resets every year to the zero value.
func (a *Annual[T]) Fill() {
	var zero T
	for i := range a.data {
		a.data[i] = zero
	}
}

// Assign overwrites [first, last] with v.
func (a *Annual[T]) Assign(first, last int, v T) error {
	if first > last {
		return nil
	}
	if err := a.check(first); err != nil {
		return err
	}
	if err := a.check(last); err != nil {
		return err
	}
	for y := first; y <= last; y++ {
		a.data[y-a.base] = v
	}
	return nil
}

// AssignFrom copies [first, last] from other.
func (a *Annual[T]) AssignFrom(first, last int, other *Annual[T]) error {
	if first > last {
		return nil
	}
	for _, y := range []int{first, last} {
		if err := a.check(y); err != nil {
			return err
		}
		if err := other.check(y); err != nil {
			return err
		}
	}
	for y := first; y <= last; y++ {
		a.data[y-a.base] = other.data[y-other.base]
	}
	return nil
}

// Clone returns an independent copy of the series.
func (a *Annual[T]) Clone() *Annual[T] {
	c := &Annual[T]{base: a.base, last: a.last, data: make([]T, len(a.data))}
	copy(c.data, a.data)
	return c
}

// Bits is a per-year flag series.
type Bits = Annual[bool]

// Ints is a per-year integer series.
type Ints = Annual[int]

// NewBits allocates a flag series.
func NewBits(base, last int) *Bits { return NewAnnual[bool](base, last) }

// NewInts allocates an integer series.
func NewInts(base, last int) *Ints { return NewAnnual[int](base, last) }

// Count returns the number of set years in [first, last].
func Count(b *Bits, first, last int) int {
	n := 0
	for y := max(first, b.base); y <= min(last, b.last); y++ {
		if b.data[y-b.base] {
			n++
		}
	}
	return n
}

// SumInts totals an integer series over [first, last], clipped to its range.
func SumInts(s *Ints, first, last int) int {
	n := 0
	for y := max(first, s.base); y <= min(last, s.last); y++ {
		n += s.data[y-s.base]
	}
	return n
}
