package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRoundPIA(t *testing.T) {
	tests := []struct {
		name string
		in   string
		year int
		want string
	}{
		{"after 1981 drops to dime", "812.37", 1990, "812.3"},
		{"exact dime unchanged", "812.30", 1990, "812.3"},
		{"before 1982 raises to dime", "812.31", 1981, "812.4"},
		{"before 1982 exact dime unchanged", "812.40", 1979, "812.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundPIA(d(tt.in), tt.year)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestRoundToNearest300(t *testing.T) {
	assert.True(t, RoundToNearest300(d("137780")).Equal(d("137700")))
	assert.True(t, RoundToNearest300(d("137850")).Equal(d("138000")))
	assert.True(t, RoundToNearest300(d("132960")).Equal(d("132900")))
}

func TestRoundToCents(t *testing.T) {
	assert.True(t, RoundToCents(d("10.005")).Equal(d("10.01")))
	assert.True(t, RoundToCents(d("10.004")).Equal(d("10")))
}

func TestClamp(t *testing.T) {
	assert.True(t, Clamp(d("5"), d("1"), d("3")).Equal(d("3")))
	assert.True(t, Clamp(d("-1"), d("0"), d("3")).Equal(d("0")))
	assert.True(t, Clamp(d("2"), d("0"), d("3")).Equal(d("2")))
}
