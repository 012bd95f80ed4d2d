package calculation

import (
	"fmt"

	"github.com/rgehrsitz/anypia/internal/domain"
	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
)

// ProjectEarnings returns the worker's earnings with the projection years
// filled in. Each projected year grows the prior year by the average wage
// index, or by the fixed rate when one is set. The worker record is not
// changed.
func (c *Calculator) ProjectEarnings(w *domain.WorkerData) (*series.Money, error) {
	out := w.Earnings.Clone()
	p := w.Projection
	if p == nil {
		return out, nil
	}
	if p.FirstYear <= out.Base() || p.LastYear > out.Last() || p.FirstYear > p.LastYear {
		return nil, fmt.Errorf("projection years %d-%d outside %d-%d", p.FirstYear, p.LastYear, out.Base(), out.Last())
	}
	awi := c.tables.AverageWage
	prev := out.At(p.FirstYear - 1)
	if !prev.IsPositive() {
		prev = p.Base
	}
	for y := p.FirstYear; y <= p.LastYear; y++ {
		if p.Growth != nil {
			prev = money.RoundToCents(prev.Mul(one.Add(*p.Growth)))
		} else {
			prev = money.RoundToCents(prev.Mul(awi.At(y)).Div(awi.At(y - 1)))
		}
		out.Set(y, prev)
	}
	c.logger.Debugf("projected earnings %d-%d from %s", p.FirstYear, p.LastYear, out.At(p.FirstYear).StringFixed(2))
	return out, nil
}
