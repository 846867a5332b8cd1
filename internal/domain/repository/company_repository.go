package repository

import (
	"context"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// FindByTaxID busca por CNPJ normalizado; (nil, nil) si no existe.
	FindByTaxID(ctx context.Context, taxID string) (*entity.Company, error)
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// Upsert inserta si el CNPJ no existe o actualiza en el lugar; completa ID y timestamps.
	Upsert(ctx context.Context, company *entity.Company) error
}
