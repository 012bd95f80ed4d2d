package calculation

import (
	"testing"

	"github.com/rgehrsitz/anypia/internal/series"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decs(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = dec(v)
	}
	return out
}

var (
	bend1990 = decs("0", "356", "2145")
	bend2021 = decs("0", "926", "5583")
	percPL   = decs("0.90", "0.32", "0.15")
)

func TestSetPortionAime_SumsToAime(t *testing.T) {
	bends := [][]decimal.Decimal{
		decs("0", "500"),
		bend2021,
		decs("0", "230", "332", "433"),
		decs("0", "100", "200", "300", "400"),
	}
	for _, bend := range bends {
		for _, a := range []string{"0", "1", "99.99", "250", "332", "1000", "5583", "12000"} {
			aime := dec(a)
			part, err := SetPortionAime(aime, bend)
			require.NoError(t, err)
			require.Len(t, part, len(bend))

			sum := decimal.Zero
			for _, p := range part {
				assert.False(t, p.IsNegative())
				sum = sum.Add(p)
			}
			assert.True(t, sum.Equal(aime), "bends %v aime %s: portions sum to %s", bend, a, sum)
		}
	}
}

func TestSetPortionAime_RejectsBadBendCount(t *testing.T) {
	_, err := SetPortionAime(dec("100"), decs("0"))
	assert.Error(t, err)
	_, err = SetPortionAime(dec("100"), decs("0", "1", "2", "3", "4", "5"))
	assert.Error(t, err)
}

func TestDeconvertAime_RoundTrip(t *testing.T) {
	tests := []struct {
		pia      string
		wantAime string
	}{
		{"500", "556"},
		{"1500", "3010"},
		{"3000", "10093"},
	}
	for _, tt := range tests {
		t.Run(tt.pia, func(t *testing.T) {
			pia := dec(tt.pia)
			aime, err := DeconvertAime(pia, bend2021, percPL, 2021)
			require.NoError(t, err)
			assert.True(t, aime.Equal(dec(tt.wantAime)), "aime %s", aime)

			back, err := FormulaAmount(aime, bend2021, percPL, 2021)
			require.NoError(t, err)
			assert.True(t, back.GreaterThanOrEqual(pia), "recovered %s below %s", back, pia)
			assert.True(t, back.Sub(pia).LessThan(dec("1")), "recovered %s too far from %s", back, pia)
		})
	}
}

func TestDeconvertAime_FloorsThrough1982(t *testing.T) {
	aime, err := DeconvertAime(dec("500"), bend2021, percPL, 1982)
	require.NoError(t, err)
	assert.True(t, aime.Equal(dec("555")))

	aime, err = DeconvertAime(decimal.Zero, bend2021, percPL, 2021)
	require.NoError(t, err)
	assert.True(t, aime.IsZero())
}

func TestAimePiaCal(t *testing.T) {
	portion, err := SetPortionAime(dec("1000"), bend1990)
	require.NoError(t, err)
	pia, err := AimePiaCal(portion, percPL, 1990)
	require.NoError(t, err)
	assert.True(t, pia.Equal(dec("526.4")), "pia %s", pia)

	// Before 1982 amounts round up to the dime.
	pia, err = AimePiaCal(portion, percPL, 1981)
	require.NoError(t, err)
	assert.True(t, pia.Equal(dec("526.5")), "pia %s", pia)

	_, err = AimePiaCal(portion, percPL[:2], 1990)
	assert.Error(t, err)
}

func TestIndexEarnings(t *testing.T) {
	earnings := series.MoneyFrom(1980, 1000, 1000, 1000)
	awi := series.MoneyFrom(1980, 100, 200, 400)

	multiplied, indexed := IndexEarnings(1980, 1981, 1982, earnings, awi, nil)
	assert.True(t, indexed.At(1980).Equal(dec("2000")))
	assert.True(t, indexed.At(1981).Equal(dec("1000")))
	assert.True(t, indexed.At(1982).Equal(dec("1000")), "years after the index year are not indexed")
	assert.True(t, multiplied.At(1980).Equal(dec("2000")))

	freeze := series.NewBits(1980, 1982)
	freeze.Set(1981, true)
	_, indexed = IndexEarnings(1980, 1981, 1982, earnings, awi, freeze)
	assert.True(t, indexed.At(1981).IsZero())
	assert.True(t, indexed.At(1980).Equal(dec("2000")))
}

func TestIndexEarnings_RoundsToCents(t *testing.T) {
	earnings := series.MoneyFrom(1990, 1000, 0)
	awi := series.MoneyFrom(1990, 3, 4)

	multiplied, indexed := IndexEarnings(1990, 1991, 1991, earnings, awi, nil)
	assert.True(t, indexed.At(1990).Equal(dec("1333.33")))
	assert.True(t, multiplied.At(1990).GreaterThan(indexed.At(1990)))
}

func TestOrderEarnings_TiesGoToEarlierYear(t *testing.T) {
	earnings := series.MoneyFrom(1990, 5, 7, 7, 3, 7)

	order := OrderEarnings(earnings, 1990, 1994, 2, nil)
	assert.Equal(t, selected, order.At(1991))
	assert.Equal(t, selected, order.At(1992))
	assert.Equal(t, notSelected, order.At(1994))
	assert.True(t, TotalSelected(earnings, order, 1990, 1994).Equal(dec("14")))

	exclude := series.NewBits(1990, 1994)
	exclude.Set(1991, true)
	order = OrderEarnings(earnings, 1990, 1994, 2, exclude)
	assert.Equal(t, notSelected, order.At(1991))
	assert.Equal(t, selected, order.At(1992))
	assert.Equal(t, selected, order.At(1994))
}

func TestAverageMonthly(t *testing.T) {
	assert.True(t, AverageMonthly(dec("100000"), 7).Equal(dec("1190")))
	assert.True(t, AverageMonthly(dec("100000"), 0).IsZero())
}

func TestDisabilityMfb(t *testing.T) {
	tests := []struct {
		name      string
		aime, pia string
		want      string
	}{
		{"150 percent of PIA", "2000", "900", "1350"},
		{"not below PIA", "1000", "900", "900"},
		{"85 percent of AIME", "1200", "900", "1020"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisabilityMfb(dec(tt.aime), dec(tt.pia), 2000)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestMfbCal(t *testing.T) {
	bendMfb := decs("0", "230", "332", "433")
	// 1.5*230 + 2.72*102 + 1.34*101 + 1.75*67
	mfb, err := MfbCal(dec("500"), bendMfb, 1990)
	require.NoError(t, err)
	assert.True(t, mfb.Equal(dec("875")), "mfb %s", mfb)
}

func TestRealWageGainAdj(t *testing.T) {
	assert.True(t, RealWageGainAdj(dec("1000"), 2025, 2020).Equal(dec("1050")))
	assert.True(t, RealWageGainAdj(dec("999.99"), 2021, 2020).Equal(dec("1009.9")))
}
