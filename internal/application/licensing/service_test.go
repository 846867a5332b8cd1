package licensing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldtnet/pdv-api/internal/application/licensing"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	domlicensing "github.com/ldtnet/pdv-api/internal/domain/licensing"
)

var t0 = time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

func newService() (*licensing.LicenseService, *memCompanies, *memLicenses, *clock) {
	companies := newMemCompanies()
	licenses := newMemLicenses()
	clk := &clock{now: t0}
	svc := licensing.NewLicenseService(companies, licenses, domlicensing.DefaultCatalog(), nil)
	svc.Now = clk.Now
	return svc, companies, licenses, clk
}

func TestLicenseService_UpsertYBuscarPorCNPJ(t *testing.T) {
	svc, _, _, _ := newService()
	ctx := context.Background()

	saved, err := svc.UpsertCompany(ctx, &entity.Company{TaxID: "06.270.840/0001-50", LegalName: "LDT NET TELECOM LTDA", State: "rn"})
	require.NoError(t, err)
	assert.Equal(t, "06270840000150", saved.TaxID)
	assert.NotEmpty(t, saved.ID)

	found, err := svc.FindCompanyByTaxID(ctx, "06270840000150")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "06270840000150", found.TaxID)
	assert.Equal(t, "RN", found.State)

	// segunda escritura actualiza en el lugar
	again, err := svc.UpsertCompany(ctx, &entity.Company{TaxID: "06270840000150", LegalName: "LDT NET"})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
}

func TestLicenseService_UpsertCNPJIncompleto(t *testing.T) {
	svc, _, _, _ := newService()
	_, err := svc.UpsertCompany(context.Background(), &entity.Company{TaxID: "0627084"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLicenseService_FindCompany_NoExiste(t *testing.T) {
	svc, _, _, _ := newService()
	c, err := svc.FindCompanyByTaxID(context.Background(), "11222333000181")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestLicenseService_ErrorDelAlmacen(t *testing.T) {
	svc, companies, _, _ := newService()
	companies.err = errors.New("connection reset")

	_, err := svc.FindCompanyByTaxID(context.Background(), "11222333000181")
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.ErrorContains(t, err, "connection reset")
}

func TestLicenseService_InsertLicense_Trial(t *testing.T) {
	svc, _, _, _ := newService()

	lic, err := svc.InsertLicense(context.Background(), "company-1", "06270840000150", entity.PlanTrial)
	require.NoError(t, err)
	assert.Equal(t, entity.LicenseActive, lic.Status)
	require.NotNil(t, lic.ActivatedAt)
	assert.True(t, lic.ActivatedAt.Equal(t0))
	assert.True(t, lic.ExpiresAt.Equal(t0.AddDate(0, 0, 15)))
	assert.True(t, lic.Value.IsZero())
	assert.Regexp(t, `^LDT-NET-06270840-[0-9a-z]+-[0-9A-Z]{6}$`, lic.ActivationKey)
}

func TestLicenseService_InsertLicense_Pago(t *testing.T) {
	svc, _, _, _ := newService()

	lic, err := svc.InsertLicense(context.Background(), "company-1", "06270840000150", entity.PlanAnnual)
	require.NoError(t, err)
	assert.Equal(t, entity.LicensePending, lic.Status)
	assert.Nil(t, lic.ActivatedAt)
	assert.Equal(t, "499.00", lic.Value.StringFixed(2))

	_, err = svc.InsertLicense(context.Background(), "company-1", "06270840000150", entity.PlanType("lifetime"))
	assert.ErrorIs(t, err, domain.ErrUnknownPlan)
}

func TestLicenseService_VencimientoPerezoso(t *testing.T) {
	svc, _, licenses, clk := newService()
	ctx := context.Background()

	lic, err := svc.InsertLicense(ctx, "company-1", "06270840000150", entity.PlanTrial)
	require.NoError(t, err)

	got, err := svc.FindActiveLicenseByCompanyID(ctx, "company-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, lic.ID, got.ID)

	clk.Advance(16 * 24 * time.Hour)

	got, err = svc.FindActiveLicenseByCompanyID(ctx, "company-1")
	require.NoError(t, err)
	assert.Nil(t, got, "licencia vencida se informa ausente")

	stored, _ := licenses.GetByID(ctx, lic.ID)
	assert.Equal(t, entity.LicenseExpired, stored.Status)
}

func TestLicenseService_VerificarPorClave(t *testing.T) {
	svc, _, licenses, clk := newService()
	ctx := context.Background()

	lic, err := svc.InsertLicense(ctx, "company-1", "06270840000150", entity.PlanTrial)
	require.NoError(t, err)

	got, err := svc.FindActiveLicenseByKey(ctx, lic.ActivationKey)
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = svc.FindActiveLicenseByKey(ctx, "LDT-NET-00000000-x-AAAAAA")
	require.NoError(t, err)
	assert.Nil(t, got)

	clk.Advance(15*24*time.Hour + time.Second)
	got, err = svc.FindActiveLicenseByKey(ctx, lic.ActivationKey)
	require.NoError(t, err)
	assert.Nil(t, got)
	stored, _ := licenses.GetByID(ctx, lic.ID)
	assert.Equal(t, entity.LicenseExpired, stored.Status)
}

func TestLicenseService_LaMasRecienteGana(t *testing.T) {
	svc, _, _, clk := newService()
	ctx := context.Background()

	_, err := svc.InsertLicense(ctx, "company-1", "06270840000150", entity.PlanTrial)
	require.NoError(t, err)
	clk.Advance(time.Hour)
	second, err := svc.InsertLicense(ctx, "company-1", "06270840000150", entity.PlanTrial)
	require.NoError(t, err)

	got, err := svc.FindActiveLicenseByCompanyID(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestLicenseService_ActivateLicense_RecalculaDesdeAhora(t *testing.T) {
	svc, _, licenses, clk := newService()
	ctx := context.Background()

	lic, err := svc.InsertLicense(ctx, "company-1", "06270840000150", entity.PlanMonthly)
	require.NoError(t, err)
	require.NoError(t, svc.LinkExternalCharge(ctx, lic.ID, "pix-1"))

	clk.Advance(48 * time.Hour)
	activated, err := svc.ActivateLicense(ctx, lic.ID)
	require.NoError(t, err)

	confirmed := t0.Add(48 * time.Hour)
	assert.Equal(t, entity.LicenseActive, activated.Status)
	assert.True(t, activated.ExpiresAt.Equal(confirmed.AddDate(0, 1, 0)))

	stored, _ := licenses.GetByID(ctx, lic.ID)
	require.NotNil(t, stored.ChargeID)
	assert.Equal(t, "pix-1", *stored.ChargeID)
	assert.True(t, stored.ActivatedAt.Equal(confirmed))

	_, err = svc.ActivateLicense(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
