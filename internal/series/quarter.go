package series

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quarterly holds one decimal value per calendar quarter over [base, last].
type Quarterly struct {
	base int
	last int
	data [][4]decimal.Decimal
}

// NewQuarterly allocates a zero series.
func NewQuarterly(base, last int) *Quarterly {
	q := &Quarterly{base: base, last: last, data: make([][4]decimal.Decimal, last-base+1)}
	for i := range q.data {
		for j := range q.data[i] {
			q.data[i][j] = decimal.Zero
		}
	}
	return q
}

func (q *Quarterly) check(year, quarter int) error {
	if year < q.base || year > q.last {
		return &RangeError{Year: year, Base: q.base, Last: q.last}
	}
	if quarter < 1 || quarter > 4 {
		return fmt.Errorf("quarter %d out of range [1, 4]", quarter)
	}
	return nil
}

// Get returns the value for (year, quarter).
func (q *Quarterly) Get(year, quarter int) (decimal.Decimal, error) {
	if err := q.check(year, quarter); err != nil {
		return decimal.Zero, err
	}
	return q.data[year-q.base][quarter-1], nil
}

// Set stores v for (year, quarter).
func (q *Quarterly) Set(year, quarter int, v decimal.Decimal) error {
	if err := q.check(year, quarter); err != nil {
		return err
	}
	q.data[year-q.base][quarter-1] = v
	return nil
}

// Annualize returns the average of the four quarters of year.
func (q *Quarterly) Annualize(year int) (decimal.Decimal, error) {
	if err := q.check(year, 1); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, v := range q.data[year-q.base] {
		total = total.Add(v)
	}
	return total.Div(decimal.NewFromInt(4)), nil
}

// Annual converts the series to yearly averages.
func (q *Quarterly) Annual() *Money {
	m := NewMoney(q.base, q.last)
	for y := q.base; y <= q.last; y++ {
		v, _ := q.Annualize(y)
		m.Set(y, v)
	}
	return m
}
