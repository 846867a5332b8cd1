// Package gtin consulta el catálogo externo de códigos de barras (EAN/GTIN).
package gtin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/pkg/config"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

var _ ports.BarcodeLookup = (*Client)(nil)

// cacheTTL los datos de un GTIN casi no cambian; se evita repetir la consulta al escanear.
const cacheTTL = 24 * time.Hour

// Client implementa ports.BarcodeLookup con caché en memoria de los aciertos.
type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
	cache   *cache.Cache
}

// NewClient construye el cliente.
func NewClient(cfg config.GTINConfig, log *logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 1
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = log.RetryableHTTP()
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    rc,
		cache:   cache.New(cacheTTL, time.Hour),
	}
}

type productPayload struct {
	Nome  string `json:"nome"`
	Marca string `json:"marca"`
}

// LookupBarcode devuelve nombre y marca del producto. Sin resultado: ports.ErrBarcodeNotFound.
func (c *Client) LookupBarcode(ctx context.Context, ean string) (*ports.BarcodeInfo, error) {
	if v, ok := c.cache.Get(ean); ok {
		info := v.(ports.BarcodeInfo)
		return &info, nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(ean), nil)
	if err != nil {
		return nil, fmt.Errorf("gtin: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gtin: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ports.ErrBarcodeNotFound
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("gtin: status %d", resp.StatusCode)
	}

	var p productPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("gtin: decodificar respuesta: %w", err)
	}
	if strings.TrimSpace(p.Nome) == "" {
		return nil, ports.ErrBarcodeNotFound
	}
	info := ports.BarcodeInfo{Code: ean, Name: strings.TrimSpace(p.Nome), Brand: strings.TrimSpace(p.Marca)}
	c.cache.SetDefault(ean, info)
	return &info, nil
}
