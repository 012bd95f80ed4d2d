package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/rgehrsitz/anypia/internal/tables"
	"github.com/shopspring/decimal"
)

var (
	twelve = decimal.NewFromInt(12)
	one    = decimal.NewFromInt(1)
)

// Order markers for computation years.
const (
	notSelected = 0
	selected    = 1
	dropped     = -1
)

// IndexEarnings wage-indexes earnings. Years year1 through year2 are
// multiplied by avgWage[year2]/avgWage[year]; multiplied keeps the raw
// product and indexed rounds it to the cent. Years after year2 through year3
// are used as reported. Freeze years are zero in both outputs.
func IndexEarnings(year1, year2, year3 int, earnings, avgWage *series.Money, freeze *series.Bits) (multiplied, indexed *series.Money) {
	multiplied = series.NewMoney(earnings.Base(), earnings.Last())
	indexed = series.NewMoney(earnings.Base(), earnings.Last())
	for y := year1; y <= year3; y++ {
		if freeze != nil && freeze.At(y) {
			continue
		}
		raw := earnings.At(y)
		if y > year2 {
			multiplied.Set(y, raw)
			indexed.Set(y, raw)
			continue
		}
		aw := avgWage.At(y)
		if aw.IsZero() {
			multiplied.Set(y, raw)
			indexed.Set(y, raw)
			continue
		}
		m := raw.Mul(avgWage.At(year2)).Div(aw)
		multiplied.Set(y, m)
		indexed.Set(y, money.RoundToCents(m))
	}
	return multiplied, indexed
}

// OrderEarnings marks the n highest years in [first, last] as selected,
// skipping excluded years. Ties go to the earlier year.
func OrderEarnings(earnings *series.Money, first, last, n int, exclude *series.Bits) *series.Ints {
	order := series.NewInts(earnings.Base(), earnings.Last())
	var years []int
	for y := first; y <= last; y++ {
		if exclude != nil && exclude.At(y) {
			continue
		}
		years = append(years, y)
	}
	sort.SliceStable(years, func(i, j int) bool {
		return earnings.At(years[i]).GreaterThan(earnings.At(years[j]))
	})
	for i := 0; i < len(years) && i < n; i++ {
		order.Set(years[i], selected)
	}
	return order
}

// TotalSelected sums earnings over the selected years in [first, last].
func TotalSelected(earnings *series.Money, order *series.Ints, first, last int) decimal.Decimal {
	total := decimal.Zero
	for y := first; y <= last; y++ {
		if order.At(y) == selected {
			total = total.Add(earnings.At(y))
		}
	}
	return total
}

// AverageMonthly divides total by n*12 and drops the cents.
func AverageMonthly(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return money.FloorToDollar(total.Div(twelve.Mul(decimal.NewFromInt(int64(n)))))
}

func checkBends(bend []decimal.Decimal) error {
	if len(bend) < 2 || len(bend) > 5 {
		return fmt.Errorf("need 1 to 4 bend points, got %d", len(bend)-1)
	}
	return nil
}

// SetPortionAime splits amount into the portions falling in each bracket of
// bend, where bend[0] is zero. The last portion is the excess over the top
// bend point.
func SetPortionAime(amount decimal.Decimal, bend []decimal.Decimal) ([]decimal.Decimal, error) {
	if err := checkBends(bend); err != nil {
		return nil, err
	}
	n := len(bend) - 1
	part := make([]decimal.Decimal, n+1)
	for i := 0; i < n; i++ {
		part[i] = money.Clamp(amount.Sub(bend[i]), decimal.Zero, bend[i+1].Sub(bend[i]))
	}
	part[n] = money.Max(amount.Sub(bend[n]), decimal.Zero)
	return part, nil
}

// AimePiaCal applies the percentages to the portions and rounds for year.
func AimePiaCal(portion, perc []decimal.Decimal, year int) (decimal.Decimal, error) {
	if len(portion) != len(perc) {
		return decimal.Zero, fmt.Errorf("%d portions but %d percentages", len(portion), len(perc))
	}
	sum := decimal.Zero
	for i := range portion {
		sum = sum.Add(perc[i].Mul(portion[i]))
	}
	return money.RoundPIA(sum, year), nil
}

// FormulaAmount applies a bend point formula to amount.
func FormulaAmount(amount decimal.Decimal, bend, perc []decimal.Decimal, year int) (decimal.Decimal, error) {
	portion, err := SetPortionAime(amount, bend)
	if err != nil {
		return decimal.Zero, err
	}
	return AimePiaCal(portion, perc, year)
}

// DeconvertAime finds the AIME that produces pia under the formula. The
// result rounds up to the dollar for eligibility after 1982 and down
// otherwise.
func DeconvertAime(pia decimal.Decimal, bend, perc []decimal.Decimal, eligYear int) (decimal.Decimal, error) {
	if err := checkBends(bend); err != nil {
		return decimal.Zero, err
	}
	if len(perc) != len(bend) {
		return decimal.Zero, fmt.Errorf("%d bend points need %d percentages, got %d", len(bend)-1, len(bend), len(perc))
	}
	if !pia.IsPositive() {
		return decimal.Zero, nil
	}
	n := len(bend) - 1
	// piaAt[i] is the formula amount at bend[i].
	piaAt := make([]decimal.Decimal, n+1)
	for i := 1; i <= n; i++ {
		piaAt[i] = piaAt[i-1].Add(perc[i-1].Mul(bend[i].Sub(bend[i-1])))
	}
	seg := n
	for i := 0; i < n; i++ {
		if pia.LessThanOrEqual(piaAt[i+1]) {
			seg = i
			break
		}
	}
	if perc[seg].IsZero() {
		return bend[seg], nil
	}
	aime := bend[seg].Add(pia.Sub(piaAt[seg]).Div(perc[seg]))
	if eligYear > 1982 {
		return aime.Ceil(), nil
	}
	return aime.Floor(), nil
}

// MfbCal applies the family maximum formula to pia.
func MfbCal(pia decimal.Decimal, bendMfb []decimal.Decimal, year int) (decimal.Decimal, error) {
	return FormulaAmount(pia, bendMfb, tables.MfbPerc, year)
}

var (
	dibMfbAimeRate = decimal.NewFromFloat(0.85)
	dibMfbPiaRate  = decimal.NewFromFloat(1.5)
)

// DisabilityMfb is the disability family maximum: the smaller of 85 percent
// of AIME and 150 percent of PIA, but not less than PIA.
func DisabilityMfb(aime, pia decimal.Decimal, year int) decimal.Decimal {
	mfb := money.Min(aime.Mul(dibMfbAimeRate), pia.Mul(dibMfbPiaRate))
	return money.RoundPIA(money.Max(mfb, pia), year)
}
