// Package brasilapi consulta datos registrales de CNPJ en la BrasilAPI pública.
package brasilapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain/onboarding"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
	"github.com/ldtnet/pdv-api/pkg/config"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

var _ ports.TaxIDLookup = (*Client)(nil)

// Client adaptador de ports.TaxIDLookup. Reintenta 5xx/429 y agrupa consultas
// simultáneas del mismo CNPJ en una sola llamada.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	group   singleflight.Group
	log     *logger.Logger
}

// NewClient construye el cliente con timeout y reintentos de la configuración.
func NewClient(cfg config.BrasilAPIConfig, log *logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = log.RetryableHTTP()
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    rc,
		log:     log.Named("brasilapi"),
	}
}

// companyPayload subconjunto de /api/cnpj/v1/{cnpj}. inscricao_estadual no siempre viene.
type companyPayload struct {
	CNPJ                string `json:"cnpj"`
	RazaoSocial         string `json:"razao_social"`
	NomeFantasia        string `json:"nome_fantasia"`
	CNAEFiscalDescricao string `json:"cnae_fiscal_descricao"`
	InscricaoEstadual   string `json:"inscricao_estadual"`
	CEP                 string `json:"cep"`
	Logradouro          string `json:"logradouro"`
	Numero              string `json:"numero"`
	Complemento         string `json:"complemento"`
	Bairro              string `json:"bairro"`
	Municipio           string `json:"municipio"`
	UF                  string `json:"uf"`
}

// LookupCompany consulta el CNPJ. 404 se traduce a ports.ErrTaxIDNotFound.
func (c *Client) LookupCompany(ctx context.Context, taxID string) (*onboarding.CompanyForm, error) {
	taxID = cnpj.Normalize(taxID)
	v, err, shared := c.group.Do(taxID, func() (interface{}, error) {
		return c.fetch(ctx, taxID)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug().Str("tax_id", logger.MaskTaxID(taxID)).Msg("consulta de CNPJ compartida")
	}
	form := *v.(*onboarding.CompanyForm)
	return &form, nil
}

func (c *Client) fetch(ctx context.Context, taxID string) (*onboarding.CompanyForm, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cnpj/v1/"+taxID, nil)
	if err != nil {
		return nil, fmt.Errorf("brasilapi: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brasilapi: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ports.ErrTaxIDNotFound
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("brasilapi: status %d", resp.StatusCode)
	}

	var p companyPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("brasilapi: decodificar respuesta: %w", err)
	}
	return &onboarding.CompanyForm{
		TaxID:             taxID,
		LegalName:         p.RazaoSocial,
		TradeName:         p.NomeFantasia,
		Classification:    p.CNAEFiscalDescricao,
		StateRegistration: strings.TrimSpace(p.InscricaoEstadual),
		PostalCode:        cnpj.Digits(p.CEP),
		Street:            p.Logradouro,
		Number:            p.Numero,
		Complement:        p.Complemento,
		District:          p.Bairro,
		City:              p.Municipio,
		State:             cnpj.NormalizeUF(p.UF),
	}, nil
}
