package features

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/churnoracle/internal/models"
)

func TestDerive_AverageOrderValueIsExact(t *testing.T) {
	cases := []models.CustomerInput{
		{OrderCount: 1, TotalSpend: 1.0, UniqueItems: 1},
		{OrderCount: 3, TotalSpend: 100.0, UniqueItems: 4},
		{OrderCount: 5, TotalSpend: 250.0, UniqueItems: 12},
		{OrderCount: 7, TotalSpend: 0, UniqueItems: 2},
		{OrderCount: 30, TotalSpend: 1500.55, UniqueItems: 40},
	}

	for _, in := range cases {
		v, err := Derive(in)
		require.NoError(t, err)
		assert.Equal(t, in.TotalSpend/float64(in.OrderCount), v.AverageOrderValue)
		assert.Equal(t, float64(in.OrderCount), v.Frequency)
		assert.Equal(t, in.TotalSpend, v.Monetary)
		assert.Equal(t, float64(in.UniqueItems), v.UniqueItems)
	}
}

func TestDerive_RowOrder(t *testing.T) {
	v, err := Derive(models.CustomerInput{OrderCount: 4, TotalSpend: 200, UniqueItems: 9})
	require.NoError(t, err)

	assert.Equal(t, []float64{4, 200, 9, 50}, v.Row())
	assert.Len(t, v.Row(), Count)
	assert.Len(t, Names(), Count)
}

func TestDerive_RejectsNonPositiveOrderCount(t *testing.T) {
	for _, n := range []int{0, -1, -20} {
		_, err := Derive(models.CustomerInput{OrderCount: n, TotalSpend: 100, UniqueItems: 1})

		var invalid *InvalidInputError
		require.True(t, errors.As(err, &invalid), "order count %d", n)
		assert.Equal(t, "order_count", invalid.Field)
	}
}

func TestDerive_RejectsNonFiniteSpend(t *testing.T) {
	for _, spend := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Derive(models.CustomerInput{OrderCount: 2, TotalSpend: spend, UniqueItems: 1})

		var invalid *InvalidInputError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "total_spend", invalid.Field)
	}
}

func TestCheckOrder(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		wantErr bool
	}{
		{"canonical", []string{"Frequency", "Monetary", "UniqueItems", "AOV"}, false},
		{"case and spaces", []string{" frequency", "MONETARY ", "uniqueitems", "aov"}, false},
		{"swapped", []string{"Monetary", "Frequency", "UniqueItems", "AOV"}, true},
		{"missing column", []string{"Frequency", "Monetary", "UniqueItems"}, true},
		{"extra column", []string{"Frequency", "Monetary", "UniqueItems", "AOV", "Recency"}, true},
		{"renamed column", []string{"Frequency", "Monetary", "StockCode", "AOV"}, true},
		{"empty", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOrder(tt.names)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var mismatch *MismatchError
			require.True(t, errors.As(err, &mismatch))
			assert.Equal(t, Names(), mismatch.Expected)
			assert.Equal(t, tt.names, mismatch.Got)
		})
	}
}
