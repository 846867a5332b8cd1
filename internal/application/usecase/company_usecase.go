package usecase

import (
	"context"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/licensing"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
	"github.com/ldtnet/pdv-api/pkg/money"
)

// CompanyUseCase consultas administrativas sobre empresas licenciadas y la tabla de planes.
type CompanyUseCase struct {
	licenses *licensing.LicenseService
}

// NewCompanyUseCase construye el caso de uso sobre el servicio de licencias.
func NewCompanyUseCase(licenses *licensing.LicenseService) *CompanyUseCase {
	return &CompanyUseCase{licenses: licenses}
}

// GetByTaxID devuelve la empresa y su licencia vigente. domain.ErrNotFound si el CNPJ no está registrado.
func (uc *CompanyUseCase) GetByTaxID(ctx context.Context, taxID string) (*dto.CompanyResponse, error) {
	company, err := uc.licenses.FindCompanyByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	license, err := uc.licenses.FindActiveLicenseByCompanyID(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	out := entityToCompanyResponse(company)
	out.License = ToLicenseResponse(license)
	return out, nil
}

// Plans tabla de planes en orden de presentación.
func (uc *CompanyUseCase) Plans() []dto.PlanResponse {
	plans := uc.licenses.Catalog().All()
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.PlanResponse{
			Plan:        string(p.Type),
			Price:       p.Price,
			PriceLabel:  money.BRL(p.Price),
			Description: p.Description,
		})
	}
	return out
}

// ToLicenseResponse nil si no hay licencia.
func ToLicenseResponse(l *entity.License) *dto.LicenseResponse {
	if l == nil {
		return nil
	}
	return &dto.LicenseResponse{
		ID:            l.ID,
		CompanyID:     l.CompanyID,
		Plan:          string(l.Plan),
		Value:         l.Value,
		ActivationKey: l.ActivationKey,
		Status:        string(l.Status),
		ActivatedAt:   l.ActivatedAt,
		ExpiresAt:     l.ExpiresAt,
	}
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:                c.ID,
		TaxID:             c.TaxID,
		TaxIDFormatted:    cnpj.Format(c.TaxID),
		LegalName:         c.LegalName,
		TradeName:         c.TradeName,
		Classification:    c.Classification,
		StateRegistration: c.StateRegistration,
		MunicipalReg:      c.MunicipalReg,
		ResponsiblePerson: c.ResponsiblePerson,
		Email:             c.Email,
		Phone:             cnpj.FormatPhone(c.Phone),
		PostalCode:        cnpj.FormatCEP(c.PostalCode),
		Street:            c.Street,
		Number:            c.Number,
		Complement:        c.Complement,
		District:          c.District,
		City:              c.City,
		State:             c.State,
		LogoURL:           c.LogoURL,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
