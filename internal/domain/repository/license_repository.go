package repository

import (
	"context"
	"time"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// LicenseRepository puerto de persistencia de licencias.
type LicenseRepository interface {
	Create(ctx context.Context, license *entity.License) error
	GetByID(ctx context.Context, id string) (*entity.License, error)
	// FindLatestActiveByCompany devuelve la licencia active más reciente de la empresa, sin evaluar vencimiento.
	FindLatestActiveByCompany(ctx context.Context, companyID string) (*entity.License, error)
	// FindActiveByKey devuelve la licencia active con esa clave de activación, sin evaluar vencimiento.
	FindActiveByKey(ctx context.Context, activationKey string) (*entity.License, error)
	UpdateStatus(ctx context.Context, id string, status entity.LicenseStatus) error
	SetCharge(ctx context.Context, id, chargeID string) error
	Activate(ctx context.Context, id string, activatedAt, expiresAt time.Time) error
}
