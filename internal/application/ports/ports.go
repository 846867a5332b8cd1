package ports

import (
	"context"
	"errors"
	"io"

	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/onboarding"
)

// Errores de los adaptadores de salida.
var (
	// ErrTaxIDNotFound el servicio de consulta no conoce el CNPJ.
	ErrTaxIDNotFound = errors.New("cnpj no encontrado en la consulta")
	// ErrBarcodeNotFound el catálogo GTIN no conoce el código.
	ErrBarcodeNotFound = errors.New("código de barras no encontrado")
)

// TaxIDLookup puerto de salida para la consulta pública de CNPJ.
// Cualquier adaptador (BrasilAPI, ReceitaWS, mock) debe implementar esta interfaz.
type TaxIDLookup interface {
	// LookupCompany devuelve los datos registrales del CNPJ normalizado.
	// ErrTaxIDNotFound si no existe; otros errores son fallos de transporte.
	LookupCompany(ctx context.Context, taxID string) (*onboarding.CompanyForm, error)
}

// ChargeInfo par nombre/valor que el proveedor muestra junto al cobro.
type ChargeInfo struct {
	Name  string
	Value string
}

// ChargeRequest datos para crear un cobro Pix.
type ChargeRequest struct {
	Amount       decimal.Decimal
	Reference    string // identificación externa, contiene el id de la licencia
	PayerMessage string
	Info         []ChargeInfo
}

// PaymentProvider puerto de salida para el proveedor de cobros.
type PaymentProvider interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*entity.Charge, error)
	GetCharge(ctx context.Context, id string) (*entity.Charge, error)
}

// ObjectStorage almacenamiento de archivos públicos (logos).
type ObjectStorage interface {
	// Put guarda el objeto y devuelve su URL pública.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// SessionStore almacén clave/valor de sesiones del asistente y carritos. Los valores viajan como JSON.
type SessionStore interface {
	// Get decodifica el valor en dst; false si la clave no existe o venció.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Authenticator valida credenciales de operadores y devuelve su rol.
// Credenciales inválidas devuelven domain.ErrUnauthorized.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*entity.Operator, error)
}

// BarcodeInfo datos del catálogo GTIN.
type BarcodeInfo struct {
	Code  string
	Name  string
	Brand string
}

// BarcodeLookup catálogo externo de códigos de barras.
type BarcodeLookup interface {
	LookupBarcode(ctx context.Context, ean string) (*BarcodeInfo, error)
}
