// Package sales implementa el carrito por operador, el cierre de venta y la emisión del cupom.
package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/pos"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
	"github.com/ldtnet/pdv-api/pkg/money"
)

const cartPrefix = "cart:"

// CartUseCase carrito efímero de cada operador, guardado en el almacén de sesiones.
type CartUseCase struct {
	sessions ports.SessionStore
	products repository.ProductRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(sessions ports.SessionStore, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{sessions: sessions, products: products}
}

// Get devuelve el carrito del operador (vacío si no existe).
func (uc *CartUseCase) Get(ctx context.Context, operator string) (pos.Cart, error) {
	var cart pos.Cart
	if _, err := uc.sessions.Get(ctx, cartKey(operator), &cart); err != nil {
		return pos.Cart{}, fmt.Errorf("leer carrito: %w: %w", domain.ErrStore, err)
	}
	return cart, nil
}

// Add agrega un producto por id o por código de barras con su precio actual.
func (uc *CartUseCase) Add(ctx context.Context, operator string, in dto.AddCartItemRequest) (pos.Cart, error) {
	var (
		p   *entity.Product
		err error
	)
	if in.ProductID != "" {
		p, err = uc.products.GetByID(ctx, in.ProductID)
	} else {
		p, err = uc.products.GetByCode(ctx, strings.TrimSpace(in.Code))
	}
	if err != nil {
		return pos.Cart{}, err
	}
	if p == nil {
		return pos.Cart{}, domain.ErrNotFound
	}

	cart, err := uc.Get(ctx, operator)
	if err != nil {
		return pos.Cart{}, err
	}
	cart = cart.Add(p)
	return cart, uc.save(ctx, operator, cart)
}

// Remove quita la línea index.
func (uc *CartUseCase) Remove(ctx context.Context, operator string, index int) (pos.Cart, error) {
	cart, err := uc.Get(ctx, operator)
	if err != nil {
		return pos.Cart{}, err
	}
	cart, err = cart.Remove(index)
	if err != nil {
		return pos.Cart{}, err
	}
	return cart, uc.save(ctx, operator, cart)
}

// Clear cancela la venta en curso.
func (uc *CartUseCase) Clear(ctx context.Context, operator string) error {
	if err := uc.sessions.Delete(ctx, cartKey(operator)); err != nil {
		return fmt.Errorf("limpiar carrito: %w: %w", domain.ErrStore, err)
	}
	return nil
}

func (uc *CartUseCase) save(ctx context.Context, operator string, cart pos.Cart) error {
	if err := uc.sessions.Set(ctx, cartKey(operator), cart); err != nil {
		return fmt.Errorf("guardar carrito: %w: %w", domain.ErrStore, err)
	}
	return nil
}

func cartKey(operator string) string {
	return cartPrefix + strings.ToLower(strings.TrimSpace(operator))
}

// ToCartResponse convierte el carrito al DTO de salida.
func ToCartResponse(c pos.Cart) dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(c.Items))
	for i, it := range c.Items {
		items = append(items, dto.CartItemResponse{
			Index:     i,
			ProductID: it.ProductID,
			Code:      it.Code,
			Name:      it.Name,
			Price:     it.Price,
		})
	}
	total := c.Total()
	return dto.CartResponse{Items: items, Total: total, TotalLabel: money.BRL(total)}
}
