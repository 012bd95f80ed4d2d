package series

import (
	"github.com/shopspring/decimal"
)

// Money is a per-year dollar series.
type Money struct {
	*Annual[decimal.Decimal]
}

// NewMoney allocates a zero dollar series covering [base, last].
func NewMoney(base, last int) *Money {
	m := &Money{NewAnnual[decimal.Decimal](base, last)}
	m.Fill()
	return m
}

// MoneyFrom builds a series starting at base from the given values.
func MoneyFrom(base int, values ...float64) *Money {
	m := NewMoney(base, base+len(values)-1)
	for i, v := range values {
		m.data[i] = decimal.NewFromFloat(v)
	}
	return m
}

// Fill zeroes every year.
func (m *Money) Fill() {
	for i := range m.data {
		m.data[i] = decimal.Zero
	}
}

// Accumulate returns seed plus the sum of [first, last]. An empty range
// returns seed unchanged.
func (m *Money) Accumulate(first, last int, seed decimal.Decimal) (decimal.Decimal, error) {
	if first > last {
		return seed, nil
	}
	if err := m.check(first); err != nil {
		return seed, err
	}
	if err := m.check(last); err != nil {
		return seed, err
	}
	total := seed
	for y := first; y <= last; y++ {
		total = total.Add(m.data[y-m.base])
	}
	return total, nil
}

// Sum is Accumulate from zero that panics with *RangeError on a bad range.
func (m *Money) Sum(first, last int) decimal.Decimal {
	total, err := m.Accumulate(first, last, decimal.Zero)
	if err != nil {
		panic(err)
	}
	return total
}

// Scale multiplies every year in [first, last] by f.
func (m *Money) Scale(first, last int, f decimal.Decimal) error {
	if first > last {
		return nil
	}
	if err := m.check(first); err != nil {
		return err
	}
	if err := m.check(last); err != nil {
		return err
	}
	for y := first; y <= last; y++ {
		m.data[y-m.base] = m.data[y-m.base].Mul(f)
	}
	return nil
}

// AddSeries adds other into m year by year over [first, last].
func (m *Money) AddSeries(first, last int, other *Money) error {
	if first > last {
		return nil
	}
	for _, y := range []int{first, last} {
		if err := m.check(y); err != nil {
			return err
		}
		if err := other.check(y); err != nil {
			return err
		}
	}
	for y := first; y <= last; y++ {
		m.data[y-m.base] = m.data[y-m.base].Add(other.data[y-other.base])
	}
	return nil
}

// Limit caps every year in [first, last] at the matching year of limits.
func (m *Money) Limit(first, last int, limits *Money) error {
	if first > last {
		return nil
	}
	for _, y := range []int{first, last} {
		if err := m.check(y); err != nil {
			return err
		}
		if err := limits.check(y); err != nil {
			return err
		}
	}
	for y := first; y <= last; y++ {
		lim := limits.data[y-limits.base]
		if m.data[y-m.base].GreaterThan(lim) {
			m.data[y-m.base] = lim
		}
	}
	return nil
}

// MaxYear returns the largest value in [first, last].
func (m *Money) MaxYear(first, last int) decimal.Decimal {
	best := decimal.Zero
	for y := max(first, m.base); y <= min(last, m.last); y++ {
		if v := m.data[y-m.base]; v.GreaterThan(best) {
			best = v
		}
	}
	return best
}

// Clone returns an independent copy.
func (m *Money) Clone() *Money {
	return &Money{m.Annual.Clone()}
}

// Grow extends the series to cover through last, zero filling new years.
func (m *Money) Grow(last int) {
	if last <= m.last {
		return
	}
	for y := m.last + 1; y <= last; y++ {
		m.data = append(m.data, decimal.Zero)
	}
	m.last = last
}
