package repository

import (
	"context"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock descuenta una unidad solo si el producto controla stock (cantidad > 0).
	DecrementStock(ctx context.Context, id string) error
}
