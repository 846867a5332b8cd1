// Package licensing orquesta el licenciamiento del PDV: operaciones sobre el
// almacén de empresas y licencias (con vencimiento perezoso) y el asistente de
// registro y activación.
package licensing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	domlicensing "github.com/ldtnet/pdv-api/internal/domain/licensing"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

// LicenseService operaciones del almacén de registros de empresas y licencias.
// Los errores del almacén se devuelven envueltos en domain.ErrStore.
type LicenseService struct {
	companies repository.CompanyRepository
	licenses  repository.LicenseRepository
	catalog   *domlicensing.Catalog
	keys      domlicensing.KeyGenerator
	log       *logger.Logger

	// Now reloj inyectable; por defecto time.Now.
	Now func() time.Time
}

// NewLicenseService construye el servicio.
func NewLicenseService(
	companies repository.CompanyRepository,
	licenses repository.LicenseRepository,
	catalog *domlicensing.Catalog,
	log *logger.Logger,
) *LicenseService {
	if log == nil {
		log = logger.Nop()
	}
	return &LicenseService{
		companies: companies,
		licenses:  licenses,
		catalog:   catalog,
		log:       log.Named("licensing"),
		Now:       time.Now,
	}
}

// Catalog tabla de planes en uso.
func (s *LicenseService) Catalog() *domlicensing.Catalog { return s.catalog }

// FindCompanyByTaxID busca la empresa por CNPJ (con o sin máscara); (nil, nil) si no existe.
func (s *LicenseService) FindCompanyByTaxID(ctx context.Context, taxID string) (*entity.Company, error) {
	normalized := cnpj.Normalize(taxID)
	if normalized == "" {
		return nil, nil
	}
	c, err := s.companies.FindByTaxID(ctx, normalized)
	if err != nil {
		return nil, storeErr("buscar empresa", err)
	}
	return c, nil
}

// UpsertCompany inserta la empresa si el CNPJ no existe o la actualiza en el lugar.
// Ediciones concurrentes: gana la última escritura.
func (s *LicenseService) UpsertCompany(ctx context.Context, c *entity.Company) (*entity.Company, error) {
	c.TaxID = cnpj.Normalize(c.TaxID)
	if len(c.TaxID) != cnpj.Length {
		return nil, fmt.Errorf("%w: el CNPJ debe tener 14 dígitos", domain.ErrValidation)
	}
	c.PostalCode = cnpj.Digits(c.PostalCode)
	c.State = cnpj.NormalizeUF(c.State)
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if err := s.companies.Upsert(ctx, c); err != nil {
		return nil, storeErr("guardar empresa", err)
	}
	return c, nil
}

// FindActiveLicenseByCompanyID devuelve la licencia activa más reciente de la empresa.
// Si ya venció la marca como expired y devuelve (nil, nil).
func (s *LicenseService) FindActiveLicenseByCompanyID(ctx context.Context, companyID string) (*entity.License, error) {
	l, err := s.licenses.FindLatestActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, storeErr("buscar licencia activa", err)
	}
	return s.evictIfExpired(ctx, l)
}

// FindActiveLicenseByKey verifica una clave de activación con el mismo vencimiento perezoso.
func (s *LicenseService) FindActiveLicenseByKey(ctx context.Context, activationKey string) (*entity.License, error) {
	if activationKey == "" {
		return nil, nil
	}
	l, err := s.licenses.FindActiveByKey(ctx, activationKey)
	if err != nil {
		return nil, storeErr("buscar licencia por clave", err)
	}
	return s.evictIfExpired(ctx, l)
}

func (s *LicenseService) evictIfExpired(ctx context.Context, l *entity.License) (*entity.License, error) {
	if l == nil {
		return nil, nil
	}
	if !l.IsExpiredAt(s.Now()) {
		return l, nil
	}
	if err := s.licenses.UpdateStatus(ctx, l.ID, entity.LicenseExpired); err != nil {
		return nil, storeErr("marcar licencia vencida", err)
	}
	s.log.Info().Str("license_id", l.ID).Time("expires_at", l.ExpiresAt).Msg("licencia vencida")
	return nil, nil
}

// InsertLicense crea la licencia del plan con una clave nueva. El plan de prueba nace
// active con ActivatedAt; los pagos nacen pending. identifier alimenta la clave (CNPJ o id).
func (s *LicenseService) InsertLicense(ctx context.Context, companyID, identifier string, plan entity.PlanType) (*entity.License, error) {
	p, err := s.catalog.Lookup(plan)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	expires, err := s.catalog.ExpiresAt(plan, now)
	if err != nil {
		return nil, err
	}
	key, err := s.keys.Generate(identifier, now)
	if err != nil {
		return nil, fmt.Errorf("generar clave de activación: %w", err)
	}
	l := &entity.License{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Plan:          plan,
		Value:         p.Price,
		ActivationKey: key,
		Status:        entity.LicensePending,
		ExpiresAt:     expires,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.IsTrial() {
		l.Status = entity.LicenseActive
		l.ActivatedAt = &now
	}
	if err := s.licenses.Create(ctx, l); err != nil {
		return nil, storeErr("crear licencia", err)
	}
	return l, nil
}

// UpdateLicenseStatus cambia el estado de la licencia.
func (s *LicenseService) UpdateLicenseStatus(ctx context.Context, licenseID string, status entity.LicenseStatus) error {
	if err := s.licenses.UpdateStatus(ctx, licenseID, status); err != nil {
		return storeErr("actualizar estado de licencia", err)
	}
	return nil
}

// LinkExternalCharge asocia el cobro del proveedor a la licencia.
func (s *LicenseService) LinkExternalCharge(ctx context.Context, licenseID, chargeID string) error {
	if err := s.licenses.SetCharge(ctx, licenseID, chargeID); err != nil {
		return storeErr("vincular cobro", err)
	}
	return nil
}

// ActivateLicense activa la licencia tras el pago: sella ActivatedAt y recalcula el
// vencimiento desde ahora según el plan.
func (s *LicenseService) ActivateLicense(ctx context.Context, licenseID string) (*entity.License, error) {
	l, err := s.licenses.GetByID(ctx, licenseID)
	if err != nil {
		return nil, storeErr("obtener licencia", err)
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	now := s.Now()
	expires, err := s.catalog.ExpiresAt(l.Plan, now)
	if err != nil {
		return nil, err
	}
	if err := s.licenses.Activate(ctx, l.ID, now, expires); err != nil {
		return nil, storeErr("activar licencia", err)
	}
	l.Status = entity.LicenseActive
	l.ActivatedAt = &now
	l.ExpiresAt = expires
	l.UpdatedAt = now
	return l, nil
}

// storeErr envuelve fallos del almacén; las violaciones de unicidad conservan ErrDuplicate.
func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}
