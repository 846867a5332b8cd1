// Package pos reúne las reglas del carrito y del cierre de venta del PDV.
package pos

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// Cart carrito de un operador. Los precios son fotos tomadas al agregar; no siguen al catálogo.
type Cart struct {
	Items []entity.SaleItem `json:"items"`
}

// Add devuelve un carrito nuevo con el producto al final. El receptor no se modifica.
func (c Cart) Add(p *entity.Product) Cart {
	items := make([]entity.SaleItem, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)
	items = append(items, entity.SaleItem{
		ProductID: p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Price:     p.Price,
	})
	return Cart{Items: items}
}

// Remove quita la línea en la posición index (base 0).
func (c Cart) Remove(index int) (Cart, error) {
	if index < 0 || index >= len(c.Items) {
		return c, fmt.Errorf("%w: línea %d fuera del carrito", domain.ErrInvalidInput, index)
	}
	items := make([]entity.SaleItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:index]...)
	items = append(items, c.Items[index+1:]...)
	return Cart{Items: items}, nil
}

// Total suma de los precios de las líneas.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price)
	}
	return total
}

// IsEmpty informa si el carrito no tiene líneas.
func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Settlement valores de cierre de una venta.
type Settlement struct {
	Total  decimal.Decimal
	Paid   decimal.Decimal
	Change decimal.Decimal
}

// Settle calcula pago y troco. En dinheiro el valor pago no puede ser menor que el total;
// sin valor informado se asume el total. Las demás formas cobran exactamente el total.
func Settle(c Cart, method entity.PaymentMethod, amountPaid decimal.Decimal) (Settlement, error) {
	if c.IsEmpty() {
		return Settlement{}, domain.ErrEmptyCart
	}
	if !method.Valid() {
		return Settlement{}, fmt.Errorf("%w: %q", domain.ErrInvalidPayment, method)
	}

	total := c.Total()
	s := Settlement{Total: total, Paid: total, Change: decimal.Zero}
	if method != entity.PaymentCash || amountPaid.IsZero() {
		return s, nil
	}
	if amountPaid.LessThan(total) {
		return Settlement{}, fmt.Errorf("%w: pago %s, total %s", domain.ErrInsufficientPayment, amountPaid.StringFixed(2), total.StringFixed(2))
	}
	s.Paid = amountPaid
	s.Change = amountPaid.Sub(total)
	return s, nil
}
