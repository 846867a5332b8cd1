// Package cora adaptador de cobros Pix dinámicos sobre la API REST de Cora.
package cora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/pkg/config"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

var _ ports.PaymentProvider = (*Client)(nil)

// Client implementa ports.PaymentProvider.
// La creación del cobro no se reintenta (no es idempotente); la consulta sí.
type Client struct {
	baseURL string
	apiKey  string
	pixKey  string
	http    *retryablehttp.Client
	log     *logger.Logger
}

// NewClient construye el adaptador para el ambiente configurado (sandbox o production).
func NewClient(cfg config.CoraConfig, log *logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 300 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = log.RetryableHTTP()
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL(), "/"),
		apiKey:  cfg.APIKey,
		pixKey:  cfg.PixKey,
		http:    rc,
		log:     log.Named("cora"),
	}
}

type infoAdicional struct {
	Nome  string `json:"nome"`
	Valor string `json:"valor"`
}

type createPixRequest struct {
	Valor              json.Number     `json:"valor"`
	Chave              string          `json:"chave"`
	Identificacao      string          `json:"identificacao"`
	InfoAdicionais     []infoAdicional `json:"infoAdicionais,omitempty"`
	SolicitacaoPagador string          `json:"solicitacaoPagador,omitempty"`
}

type pixResponse struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	Valor         decimal.Decimal `json:"valor"`
	Identificacao string          `json:"identificacao"`
	QRCode        string          `json:"qrCode"`
	QRCodeImage   string          `json:"qrCodeImage"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// CreateCharge crea un Pix dinámico (POST /pix/qrcodes/dynamic).
func (c *Client) CreateCharge(ctx context.Context, in ports.ChargeRequest) (*entity.Charge, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("cora: CORA_API_KEY no configurada")
	}
	body := createPixRequest{
		Valor:              json.Number(in.Amount.StringFixed(2)),
		Chave:              c.pixKey,
		Identificacao:      in.Reference,
		SolicitacaoPagador: in.PayerMessage,
	}
	for _, info := range in.Info {
		body.InfoAdicionais = append(body.InfoAdicionais, infoAdicional{Nome: info.Name, Valor: info.Value})
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("cora: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pix/qrcodes/dynamic", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("cora: crear request: %w", err)
	}
	c.setHeaders(req.Header)

	resp, err := c.http.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cora: crear cobro: %w", err)
	}
	defer resp.Body.Close()

	p, err := decode(resp)
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("charge_id", p.ID).Str("reference", in.Reference).Msg("cobro pix creado")
	if p.Identificacao == "" {
		p.Identificacao = in.Reference
	}
	if p.Valor.IsZero() {
		p.Valor = in.Amount
	}
	return toCharge(p), nil
}

// GetCharge consulta el estado del cobro (GET /pix/qrcodes/{id}).
func (c *Client) GetCharge(ctx context.Context, id string) (*entity.Charge, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pix/qrcodes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("cora: crear request: %w", err)
	}
	c.setHeaders(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cora: consultar cobro: %w", err)
	}
	defer resp.Body.Close()

	p, err := decode(resp)
	if err != nil {
		return nil, err
	}
	return toCharge(p), nil
}

func (c *Client) setHeaders(h http.Header) {
	h.Set("Authorization", "Bearer "+c.apiKey)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
}

func decode(resp *http.Response) (*pixResponse, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("cora: leer respuesta: %w", err)
	}
	if resp.StatusCode >= 300 {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("cora: status %d: %s", resp.StatusCode, e.Message)
		}
		return nil, fmt.Errorf("cora: status %d", resp.StatusCode)
	}
	var p pixResponse
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("cora: decodificar respuesta: %w", err)
	}
	return &p, nil
}

func toCharge(p *pixResponse) *entity.Charge {
	return &entity.Charge{
		ID:          p.ID,
		Amount:      p.Valor,
		Status:      p.Status,
		PixCode:     p.QRCode,
		QRCodeImage: p.QRCodeImage,
		ExternalRef: p.Identificacao,
	}
}
