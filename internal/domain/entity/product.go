package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo del PDV.
// StockQuantity 0 significa que la tienda no controla stock de ese producto.
type Product struct {
	ID            string
	Code          string // EAN/GTIN o código interno; opcional
	Name          string
	Price         decimal.Decimal // precio de venta
	CostPrice     decimal.Decimal
	StockQuantity int
	Supplier      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
