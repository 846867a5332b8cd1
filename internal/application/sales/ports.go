package sales

import (
	"context"
	"time"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción con los repos de venta y catálogo.
// Si fn devuelve error se hace rollback.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ReceiptDocument datos de un cupom ya emitido, para sus representaciones alternativas.
type ReceiptDocument struct {
	Sale     *entity.Sale
	Issuer   receipt.Issuer
	Text     string // cupom de ancho fijo
	IssuedAt time.Time
}

// ReceiptPDFGenerator genera el PDF del cupom.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, doc ReceiptDocument) ([]byte, error)
}

// ReceiptXMLExporter exporta la venta a XML.
type ReceiptXMLExporter interface {
	ExportReceiptXML(doc ReceiptDocument) ([]byte, error)
}
