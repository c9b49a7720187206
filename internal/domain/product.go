package domain

import "time"

// DefaultRackNo — код стеллажа по умолчанию для новых товаров.
const DefaultRackNo = "A1"

// Product описывает товар медицинского каталога.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Category     string
	PriceCents   int64 // Цена хранится в центах
	Stock        int64
	Manufacturer string
	RackNo       string
	ExpiryDate   *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// StockStatus — категория наличия товара на складе.
type StockStatus string

const (
	StockStatusIn  StockStatus = "in-stock"
	StockStatusLow StockStatus = "low-stock"
	StockStatusOut StockStatus = "out-of-stock"
)

// lowStockThreshold — граница между low-stock и in-stock.
const lowStockThreshold = 10

// StockStatusOf возвращает категорию наличия для заданного остатка:
// stock > 10 — in-stock, 1..10 — low-stock, 0 — out-of-stock.
func StockStatusOf(stock int64) StockStatus {
	switch {
	case stock > lowStockThreshold:
		return StockStatusIn
	case stock > 0:
		return StockStatusLow
	default:
		return StockStatusOut
	}
}

// ParseStockStatus проверяет значение фильтра наличия из запроса.
func ParseStockStatus(s string) (StockStatus, bool) {
	switch StockStatus(s) {
	case StockStatusIn, StockStatusLow, StockStatusOut:
		return StockStatus(s), true
	default:
		return "", false
	}
}
