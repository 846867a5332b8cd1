package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code          string          `json:"code" validate:"max=50"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	Supplier      string          `json:"supplier" validate:"max=200"`
}

// UpdateProductRequest entrada para actualizar un producto; los campos nil no cambian.
type UpdateProductRequest struct {
	Code          *string          `json:"code" validate:"omitempty,max=50"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price         *decimal.Decimal `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	Supplier      *string          `json:"supplier" validate:"omitempty,max=200"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	StockQuantity int             `json:"stock_quantity"`
	Supplier      string          `json:"supplier"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BarcodeResponse resultado de la consulta GTIN para precargar el formulario.
type BarcodeResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Brand   string `json:"brand,omitempty"`
	Found   bool   `json:"found"`
	Warning string `json:"warning,omitempty"`
}
