package repository

import (
	"context"
	"time"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas.
type SaleRepository interface {
	// Create persiste la venta y asigna Number desde la secuencia de cupons.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
	// ListSince devuelve las ventas desde since (inclusive); since cero = todas.
	ListSince(ctx context.Context, since time.Time) ([]*entity.Sale, error)
	Delete(ctx context.Context, id string) error
}
