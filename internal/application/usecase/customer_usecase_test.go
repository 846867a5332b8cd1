package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/licensing"
	"github.com/ldtnet/pdv-api/internal/application/usecase"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	domlicensing "github.com/ldtnet/pdv-api/internal/domain/licensing"
)

type stubCustomers struct {
	byPhone map[string]*entity.Customer
}

func (s *stubCustomers) Create(_ context.Context, c *entity.Customer) error {
	s.byPhone[c.Phone] = c
	return nil
}

func (s *stubCustomers) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	return s.byPhone[phone], nil
}

func (s *stubCustomers) List(context.Context) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(s.byPhone))
	for _, c := range s.byPhone {
		out = append(out, c)
	}
	return out, nil
}

func TestCustomer_CreateGuardaDigitosYRespondeConMascara(t *testing.T) {
	repo := &stubCustomers{byPhone: map[string]*entity.Customer{}}
	uc := usecase.NewCustomerUseCase(repo)

	out, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: " Maria ", Phone: "(84) 99876-5432"})
	require.NoError(t, err)
	assert.Equal(t, "Maria", out.Name)
	assert.Equal(t, "(84) 99876-5432", out.Phone)
	require.Contains(t, repo.byPhone, "84998765432")

	_, err = uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "Outra", Phone: "84998765432"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "Curto", Phone: "8499"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Empresas ─────────────────────────────────────────────────────────────────

type stubCompanies struct{ c *entity.Company }

func (s *stubCompanies) FindByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	if s.c == nil || s.c.TaxID != taxID {
		return nil, nil
	}
	return s.c, nil
}
func (s *stubCompanies) GetByID(context.Context, string) (*entity.Company, error) { return s.c, nil }
func (s *stubCompanies) Upsert(context.Context, *entity.Company) error           { return nil }

type noLicenses struct{}

func (noLicenses) Create(context.Context, *entity.License) error                { return nil }
func (noLicenses) GetByID(context.Context, string) (*entity.License, error)      { return nil, nil }
func (noLicenses) FindActiveByKey(context.Context, string) (*entity.License, error) {
	return nil, nil
}
func (noLicenses) FindLatestActiveByCompany(context.Context, string) (*entity.License, error) {
	return nil, nil
}
func (noLicenses) UpdateStatus(context.Context, string, entity.LicenseStatus) error { return nil }
func (noLicenses) SetCharge(context.Context, string, string) error                 { return nil }
func (noLicenses) Activate(context.Context, string, time.Time, time.Time) error    { return nil }

func TestCompany_GetByTaxIDFormateaContacto(t *testing.T) {
	companies := &stubCompanies{c: &entity.Company{
		ID: "cmp-1", TaxID: "06270840000150", LegalName: "LDT NET TELECOM LTDA",
		Phone: "8432221234", PostalCode: "59020265",
	}}
	svc := licensing.NewLicenseService(companies, noLicenses{}, domlicensing.DefaultCatalog(), nil)
	uc := usecase.NewCompanyUseCase(svc)

	out, err := uc.GetByTaxID(context.Background(), "06.270.840/0001-50")
	require.NoError(t, err)
	assert.Equal(t, "06.270.840/0001-50", out.TaxIDFormatted)
	assert.Equal(t, "(84) 3222-1234", out.Phone)
	assert.Equal(t, "59020-265", out.PostalCode)
	assert.Nil(t, out.License)

	_, err = uc.GetByTaxID(context.Background(), "11222333000181")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
