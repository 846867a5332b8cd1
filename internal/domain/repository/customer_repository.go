package repository

import (
	"context"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	List(ctx context.Context) ([]*entity.Customer, error)
}
