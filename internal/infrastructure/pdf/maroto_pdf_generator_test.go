package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/internal/infrastructure/pdf"
)

func TestGenerateReceiptPDF(t *testing.T) {
	doc := sales.ReceiptDocument{
		Sale: &entity.Sale{
			Number:        42,
			Total:         decimal.RequireFromString("12.50"),
			PaymentMethod: entity.PaymentPix,
			Items: []entity.SaleItem{
				{Name: "Café", Price: decimal.RequireFromString("9.00")},
				{Name: "Pão de queijo", Price: decimal.RequireFromString("3.50")},
			},
			Operator: "Maria",
		},
		Issuer:   receipt.DefaultIssuer(),
		IssuedAt: time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC),
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateReceiptPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceiptPDF_SinVenta(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateReceiptPDF(context.Background(), sales.ReceiptDocument{})
	assert.Error(t, err)
}
