package postgres

import (
	"context"
	"fmt"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository (tabla empresas, clave natural cnpj).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, cnpj, razao_social, nome_fantasia, classificacao, inscricao_estadual, inscricao_municipal,
	responsavel, email, telefone, cep, logradouro, numero, complemento, bairro, cidade, uf, logo_url,
	created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.TaxID, &c.LegalName, &c.TradeName, &c.Classification, &c.StateRegistration, &c.MunicipalReg,
		&c.ResponsiblePerson, &c.Email, &c.Phone, &c.PostalCode, &c.Street, &c.Number, &c.Complement,
		&c.District, &c.City, &c.State, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByTaxID busca por CNPJ normalizado.
func (r *CompanyRepo) FindByTaxID(ctx context.Context, taxID string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM empresas WHERE cnpj = $1`, taxID))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by cnpj: %w", err)
	}
	return c, nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM empresas WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// Upsert inserta o actualiza por cnpj. Devuelve el id y los timestamps vigentes en la base:
// si la empresa ya existía se conserva su id original.
func (r *CompanyRepo) Upsert(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO empresas (id, cnpj, razao_social, nome_fantasia, classificacao, inscricao_estadual,
			inscricao_municipal, responsavel, email, telefone, cep, logradouro, numero, complemento,
			bairro, cidade, uf, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		ON CONFLICT (cnpj) DO UPDATE SET
			razao_social = EXCLUDED.razao_social,
			nome_fantasia = EXCLUDED.nome_fantasia,
			classificacao = EXCLUDED.classificacao,
			inscricao_estadual = EXCLUDED.inscricao_estadual,
			inscricao_municipal = EXCLUDED.inscricao_municipal,
			responsavel = EXCLUDED.responsavel,
			email = EXCLUDED.email,
			telefone = EXCLUDED.telefone,
			cep = EXCLUDED.cep,
			logradouro = EXCLUDED.logradouro,
			numero = EXCLUDED.numero,
			complemento = EXCLUDED.complemento,
			bairro = EXCLUDED.bairro,
			cidade = EXCLUDED.cidade,
			uf = EXCLUDED.uf,
			logo_url = EXCLUDED.logo_url,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		c.ID, c.TaxID, c.LegalName, c.TradeName, c.Classification, c.StateRegistration,
		c.MunicipalReg, c.ResponsiblePerson, c.Email, c.Phone, c.PostalCode, c.Street, c.Number, c.Complement,
		c.District, c.City, c.State, c.LogoURL,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return wrapWriteErr("upsert company", err)
	}
	return nil
}
