package tables

import (
	"fmt"

	"github.com/rgehrsitz/anypia/internal/money"
	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
)

// First year of the wage-indexed formula and the index year its amounts are
// stated in.
const (
	FirstIndexedYear = 1979
	formulaBaseYear  = 1977
)

var (
	// PiaBend1979 and MfbBend1979 are the formula bend points for 1979
	// eligibility.
	PiaBend1979 = []decimal.Decimal{decimal.NewFromInt(180), decimal.NewFromInt(1085)}
	MfbBend1979 = []decimal.Decimal{decimal.NewFromInt(230), decimal.NewFromInt(332), decimal.NewFromInt(433)}

	// PiaPerc and MfbPerc are the present-law formula percentages.
	PiaPerc = []decimal.Decimal{decimal.NewFromFloat(0.90), decimal.NewFromFloat(0.32), decimal.NewFromFloat(0.15)}
	MfbPerc = []decimal.Decimal{decimal.NewFromFloat(1.50), decimal.NewFromFloat(2.72), decimal.NewFromFloat(1.34), decimal.NewFromFloat(1.75)}
)

// ScaleBendPoints converts 1979 bend point amounts to eligYear by the growth
// in the average wage index, rounding to the dollar. The result starts with
// a zero entry so bend[i] is the lower edge of bracket i.
func ScaleBendPoints(awi *series.Money, eligYear int, amounts []decimal.Decimal) ([]decimal.Decimal, error) {
	if eligYear < FirstIndexedYear {
		return nil, fmt.Errorf("no wage-indexed bend points before %d (year %d)", FirstIndexedYear, eligYear)
	}
	num, err := awi.Get(eligYear - 2)
	if err != nil {
		return nil, err
	}
	den := awi.At(formulaBaseYear)
	bend := make([]decimal.Decimal, len(amounts)+1)
	bend[0] = decimal.Zero
	for i, a := range amounts {
		bend[i+1] = money.RoundToDollar(a.Mul(num).Div(den))
	}
	return bend, nil
}
