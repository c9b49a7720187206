package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusOf(t *testing.T) {
	assert.Equal(t, StockStatusIn, StockStatusOf(11))
	assert.Equal(t, StockStatusIn, StockStatusOf(1000))
	assert.Equal(t, StockStatusLow, StockStatusOf(10))
	assert.Equal(t, StockStatusLow, StockStatusOf(5))
	assert.Equal(t, StockStatusLow, StockStatusOf(1))
	assert.Equal(t, StockStatusOut, StockStatusOf(0))
}

func TestParseStockStatus(t *testing.T) {
	for _, s := range []string{"in-stock", "low-stock", "out-of-stock"} {
		got, ok := ParseStockStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, StockStatus(s), got)
	}

	_, ok := ParseStockStatus("plenty")
	assert.False(t, ok)
}
