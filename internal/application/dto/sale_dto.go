package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddCartItemRequest agrega un producto por id o por código de barras.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required_without=Code,omitempty,uuid"`
	Code      string `json:"code" validate:"required_without=ProductID,omitempty,max=50"`
}

// CartItemResponse línea del carrito con su índice.
type CartItemResponse struct {
	Index     int             `json:"index"`
	ProductID string          `json:"product_id"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// CartResponse carrito del operador.
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	TotalLabel string             `json:"total_label"`
}

// CheckoutRequest cierre de venta. AmountPaid solo aplica a dinheiro.
// Para whatsapp, CustomerName y CustomerPhone registran al cliente y arman el enlace.
type CheckoutRequest struct {
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=dinheiro pix cartao whatsapp"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	CustomerID    string          `json:"customer_id" validate:"omitempty,uuid"`
	CustomerName  string          `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone string          `json:"customer_phone" validate:"required_if=PaymentMethod whatsapp,omitempty,max=20"`
}

// SaleItemResponse línea vendida.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        int64              `json:"number"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	Change        decimal.Decimal    `json:"change"`
	Items         []SaleItemResponse `json:"items"`
	CustomerID    *string            `json:"customer_id,omitempty"`
	Operator      string             `json:"operator"`
	CreatedAt     time.Time          `json:"created_at"`
}

// CheckoutResponse venta registrada con el cupom y, si corresponde, el enlace de WhatsApp.
type CheckoutResponse struct {
	Sale         SaleResponse `json:"sale"`
	Receipt      string       `json:"receipt"`
	WhatsAppLink string       `json:"whatsapp_link,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ProductSalesResponse total vendido por nombre de producto.
type ProductSalesResponse struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// SalesReportResponse resumen de ventas.
type SalesReportResponse struct {
	Since     *time.Time                 `json:"since,omitempty"`
	SaleCount int                        `json:"sale_count"`
	Revenue   decimal.Decimal            `json:"revenue"`
	ByMethod  map[string]decimal.Decimal `json:"by_method"`
	ByProduct []ProductSalesResponse     `json:"by_product"`
}

// ShareReceiptRequest teléfono destino del cupom por WhatsApp.
type ShareReceiptRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
}

// ShareReceiptResponse enlace wa.me listo para abrir.
type ShareReceiptResponse struct {
	Link string `json:"link"`
}
