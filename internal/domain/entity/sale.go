package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de pago de una venta.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "dinheiro"
	PaymentPix      PaymentMethod = "pix"
	PaymentCard     PaymentMethod = "cartao"
	PaymentWhatsApp PaymentMethod = "whatsapp"
)

// Valid informa si la forma de pago pertenece al conjunto conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCard, PaymentWhatsApp:
		return true
	}
	return false
}

// Label etiqueta impresa en el cupom.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentPix:
		return "PIX"
	case PaymentCard:
		return "CARTAO"
	case PaymentWhatsApp:
		return "WHATSAPP"
	default:
		return "DINHEIRO"
	}
}

// SaleItem línea vendida. Price es la foto del precio al agregar al carrito.
type SaleItem struct {
	ProductID string          `json:"product_id"`
	Code      string          `json:"code,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// Sale venta registrada. Number es la numeración secuencial del cupom.
type Sale struct {
	ID            string
	Number        int64
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	AmountPaid    decimal.Decimal
	Change        decimal.Decimal
	Items         []SaleItem
	CustomerID    *string
	Operator      string
	CreatedAt     time.Time
}
