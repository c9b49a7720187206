// Package money конвертирует денежные суммы между строками и центами.
package money

import (
	"errors"
	"strings"

	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// maxPriceCents — верхняя граница цены (1 млрд в основных единицах).
var maxPriceCents = decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))

// ParseCents converts a string like "599.99" or "600" to int64 cents.
// Returns error if:
// - invalid format
// - more than 2 decimal places
// - negative value
// - exceeds the price limit
func ParseCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	cents := d.Mul(decimal.NewFromInt(100))
	if cents.GreaterThan(maxPriceCents) {
		return 0, e.ErrInvalidPrice
	}

	// не больше двух значащих знаков после запятой;
	// хвостовые нули ("1.500") не считаются потерей точности
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, e.ErrPricePrecision
	}

	return cents.Round(0).IntPart(), nil
}

// CentsToString превращает центы в десятичную строку с двумя знаками ("599.99").
func CentsToString(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// CentsToFloat отдаёт сумму как число для JSON-представления.
func CentsToFloat(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Float64()
	return f
}
