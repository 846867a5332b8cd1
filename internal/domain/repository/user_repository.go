package repository

import (
	"context"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// OperatorRepository cuentas de operadores del caixa.
type OperatorRepository interface {
	Create(ctx context.Context, acc *entity.OperatorAccount) error
	// FindByEmail (nil, nil) si no existe. El email se compara en minúsculas.
	FindByEmail(ctx context.Context, email string) (*entity.OperatorAccount, error)
}
