// Package pdf genera la versión PDF del cupom para descarga o envío.
//
// Layout (rollo de 80 mm):
//
//	┌──────────────────────────────┐
//	│  EMISOR: nombre + CNPJ/IE    │
//	│  CUPOM COO + fecha/hora      │
//	│  ──────────────────────────  │
//	│  ITEM | DESCRIPCIÓN | VALOR  │
//	│  ──────────────────────────  │
//	│  TOTAL / PAGO / TROCO        │
//	│  QR Pix + operador           │
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
	"github.com/ldtnet/pdv-api/pkg/money"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorText = &props.Color{Red: 20, Green: 20, Blue: 20}
	colorGray = &props.Color{Red: 110, Green: 110, Blue: 110}
)

const (
	rollWidth  = 80.0
	rollHeight = 297.0
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ sales.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa sales.ReceiptPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateReceiptPDF genera el PDF del cupom y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(_ context.Context, doc sales.ReceiptDocument) ([]byte, error) {
	if doc.Sale == nil {
		return nil, fmt.Errorf("pdf: venta vacía")
	}
	cfg := config.NewBuilder().
		WithDimensions(rollWidth, rollHeight).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 7, Color: colorText}).
		WithTitle(fmt.Sprintf("Cupom %06d", doc.Sale.Number), true).
		WithAuthor(doc.Issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(issuerRows(doc.Issuer)...)
	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(itemRows(doc)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(totalRows(doc)...)
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar cupom: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func issuerRows(is receipt.Issuer) []core.Row {
	center := func(s string, style fontstyle.Type, size float64) core.Row {
		return row.New(4).Add(col.New(12).Add(text.New(s, props.Text{
			Style: style, Size: size, Align: align.Center,
		})))
	}
	return []core.Row{
		center(strings.ToUpper(is.Name), fontstyle.Bold, 9),
		center(strings.ToUpper(is.Address), fontstyle.Normal, 7),
		center(fmt.Sprintf("%s - %s  CEP: %s", strings.ToUpper(is.City), is.UF, cnpj.FormatCEP(is.CEP)), fontstyle.Normal, 7),
		center(fmt.Sprintf("CNPJ: %s  IE: %s", is.CNPJ, is.IE), fontstyle.Normal, 7),
	}
}

func headerRow(doc sales.ReceiptDocument) core.Row {
	return row.New(6).Add(
		col.New(6).Add(text.New(fmt.Sprintf("CUPOM COO:%06d", doc.Sale.Number), props.Text{
			Style: fontstyle.Bold, Top: 2,
		})),
		col.New(6).Add(text.New(doc.IssuedAt.Format("02/01/2006 15:04:05"), props.Text{
			Align: align.Right, Top: 2, Color: colorGray,
		})),
	)
}

func itemRows(doc sales.ReceiptDocument) []core.Row {
	rows := make([]core.Row, 0, len(doc.Sale.Items)+1)
	rows = append(rows, row.New(4).Add(
		col.New(2).Add(text.New("ITEM", props.Text{Style: fontstyle.Bold})),
		col.New(6).Add(text.New("DESC.", props.Text{Style: fontstyle.Bold})),
		col.New(4).Add(text.New("VALOR", props.Text{Style: fontstyle.Bold, Align: align.Right})),
	))
	for i, it := range doc.Sale.Items {
		rows = append(rows, row.New(4).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%03d", i+1))),
			col.New(6).Add(text.New(it.Name)),
			col.New(4).Add(text.New("R$"+money.Format(it.Price), props.Text{Align: align.Right})),
		))
	}
	return rows
}

func totalRows(doc sales.ReceiptDocument) []core.Row {
	s := doc.Sale
	paid := s.AmountPaid
	if paid.IsZero() {
		paid = s.Total
	}
	pair := func(label, value string, style fontstyle.Type) core.Row {
		return row.New(4).Add(
			col.New(6).Add(text.New(label, props.Text{Style: style})),
			col.New(6).Add(text.New(value, props.Text{Style: style, Align: align.Right})),
		)
	}
	return []core.Row{
		pair("TOTAL", "R$"+money.Format(s.Total), fontstyle.Bold),
		pair(s.PaymentMethod.Label(), "R$"+money.Format(paid), fontstyle.Normal),
		pair("TROCO", "R$"+money.Format(s.Change), fontstyle.Normal),
		pair("IMPOSTOS 22,5%", "R$"+money.Format(s.Total.Mul(receipt.TaxRate)), fontstyle.Normal),
	}
}

func footerRows(doc sales.ReceiptDocument) []core.Row {
	pix := doc.Issuer.PixKey
	if pix == "" {
		pix = doc.Issuer.CNPJ
	}
	operator := strings.TrimSpace(doc.Sale.Operator)
	if operator == "" {
		operator = "OPERADOR NÃO IDENTIFICADO"
	}
	rows := []core.Row{row.New(3)}
	if pix != "" {
		rows = append(rows,
			row.New(30).Add(col.New(12).Add(code.NewQr(pix, props.Rect{Percent: 90, Center: true}))),
			row.New(4).Add(col.New(12).Add(text.New("PIX: "+pix, props.Text{Align: align.Center}))),
		)
	}
	rows = append(rows, row.New(5).Add(col.New(12).Add(
		text.New("OPERADOR: "+strings.ToUpper(operator), props.Text{Align: align.Center, Top: 1, Color: colorGray}),
	)))
	return rows
}
