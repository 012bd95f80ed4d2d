package series

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnual_GetOutOfRange(t *testing.T) {
	a := NewInts(1950, 1960)

	_, err := a.Get(1949)
	require.Error(t, err)

	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 1949, rangeErr.Year)
	assert.Equal(t, 1950, rangeErr.Base)
	assert.Equal(t, 1960, rangeErr.Last)

	_, err = a.Get(1961)
	assert.Error(t, err)
}

func TestAnnual_AtPanicsWithRangeError(t *testing.T) {
	a := NewBits(1950, 1960)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*RangeError)
		assert.True(t, ok, "panic value should be *RangeError")
	}()
	a.At(2000)
}

func TestAnnual_AssignAndCount(t *testing.T) {
	b := NewBits(1980, 1990)
	require.NoError(t, b.Assign(1982, 1985, true))

	assert.Equal(t, 4, Count(b, 1980, 1990))
	assert.Equal(t, 2, Count(b, 1984, 2000), "count clips to the series range")
	assert.Error(t, b.Assign(1979, 1985, true))
}

func TestMoney_Accumulate(t *testing.T) {
	m := MoneyFrom(2000, 100, 200, 300, 400)

	total, err := m.Accumulate(2001, 2002, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(505)))

	empty, err := m.Accumulate(2003, 2002, decimal.NewFromInt(7))
	require.NoError(t, err)
	assert.True(t, empty.Equal(decimal.NewFromInt(7)), "empty range returns the seed")

	_, err = m.Accumulate(1999, 2002, decimal.Zero)
	assert.Error(t, err)
}

func TestMoney_LimitAndAdd(t *testing.T) {
	m := MoneyFrom(2000, 100, 500, 300)
	limits := MoneyFrom(2000, 200, 200, 200)

	require.NoError(t, m.Limit(2000, 2002, limits))
	assert.True(t, m.At(2000).Equal(decimal.NewFromInt(100)))
	assert.True(t, m.At(2001).Equal(decimal.NewFromInt(200)))
	assert.True(t, m.At(2002).Equal(decimal.NewFromInt(200)))

	require.NoError(t, m.AddSeries(2000, 2002, limits))
	assert.True(t, m.Sum(2000, 2002).Equal(decimal.NewFromInt(1100)))
}

func TestMoney_CloneIsIndependent(t *testing.T) {
	m := MoneyFrom(2000, 1, 2)
	c := m.Clone()
	c.Set(2000, decimal.NewFromInt(99))

	assert.True(t, m.At(2000).Equal(decimal.NewFromInt(1)))
}

func TestQuarterly_Annualize(t *testing.T) {
	q := NewQuarterly(2000, 2001)
	for i := 1; i <= 4; i++ {
		require.NoError(t, q.Set(2000, i, decimal.NewFromInt(int64(i*10))))
	}

	avg, err := q.Annualize(2000)
	require.NoError(t, err)
	assert.True(t, avg.Equal(decimal.NewFromInt(25)))

	assert.Error(t, q.Set(2000, 5, decimal.Zero))
	_, err = q.Get(2002, 1)
	assert.Error(t, err)
}
