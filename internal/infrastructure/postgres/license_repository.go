package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

var _ repository.LicenseRepository = (*LicenseRepo)(nil)

// LicenseRepo implementación de LicenseRepository (tabla licencas).
type LicenseRepo struct {
	q Querier
}

// NewLicenseRepository construye el adaptador.
func NewLicenseRepository(q Querier) *LicenseRepo {
	return &LicenseRepo{q: q}
}

const licenseColumns = `id, empresa_id, tipo, valor, chave_ativacao, status, data_ativacao, data_expiracao,
	charge_id, created_at, updated_at`

func scanLicense(row interface{ Scan(...any) error }) (*entity.License, error) {
	var l entity.License
	var plan, status string
	err := row.Scan(
		&l.ID, &l.CompanyID, &plan, &l.Value, &l.ActivationKey, &status, &l.ActivatedAt, &l.ExpiresAt,
		&l.ChargeID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Plan = entity.PlanType(plan)
	l.Status = entity.LicenseStatus(status)
	return &l, nil
}

func (r *LicenseRepo) queryOne(ctx context.Context, op, where string, args ...any) (*entity.License, error) {
	l, err := scanLicense(r.q.QueryRow(ctx, `SELECT `+licenseColumns+` FROM licencas `+where, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// Create persiste una licencia nueva. La clave de activación es única.
func (r *LicenseRepo) Create(ctx context.Context, l *entity.License) error {
	query := `
		INSERT INTO licencas (id, empresa_id, tipo, valor, chave_ativacao, status, data_ativacao,
			data_expiracao, charge_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, string(l.Plan), l.Value, l.ActivationKey, string(l.Status), l.ActivatedAt,
		l.ExpiresAt, l.ChargeID, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert license", err)
	}
	return nil
}

// GetByID obtiene una licencia por ID.
func (r *LicenseRepo) GetByID(ctx context.Context, id string) (*entity.License, error) {
	return r.queryOne(ctx, "get license", `WHERE id = $1`, id)
}

// FindLatestActiveByCompany la licencia active más reciente de la empresa.
func (r *LicenseRepo) FindLatestActiveByCompany(ctx context.Context, companyID string) (*entity.License, error) {
	return r.queryOne(ctx, "get active license by company",
		`WHERE empresa_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`,
		companyID, string(entity.LicenseActive))
}

// FindActiveByKey licencia active con esa clave.
func (r *LicenseRepo) FindActiveByKey(ctx context.Context, activationKey string) (*entity.License, error) {
	return r.queryOne(ctx, "get active license by key",
		`WHERE chave_ativacao = $1 AND status = $2`,
		activationKey, string(entity.LicenseActive))
}

// UpdateStatus cambia el estado. domain.ErrNotFound si no existe.
func (r *LicenseRepo) UpdateStatus(ctx context.Context, id string, status entity.LicenseStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE licencas SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update license status: %w", err)
	}
	return expectAffected(tag)
}

// SetCharge vincula el cobro externo.
func (r *LicenseRepo) SetCharge(ctx context.Context, id, chargeID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE licencas SET charge_id = $2, updated_at = NOW() WHERE id = $1`, id, chargeID)
	if err != nil {
		return fmt.Errorf("set license charge: %w", err)
	}
	return expectAffected(tag)
}

// Activate marca active con fecha de activación y nuevo vencimiento.
func (r *LicenseRepo) Activate(ctx context.Context, id string, activatedAt, expiresAt time.Time) error {
	query := `
		UPDATE licencas
		SET status = $2, data_ativacao = $3, data_expiracao = $4, updated_at = $3
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(entity.LicenseActive), activatedAt, expiresAt)
	if err != nil {
		return fmt.Errorf("activate license: %w", err)
	}
	return expectAffected(tag)
}
