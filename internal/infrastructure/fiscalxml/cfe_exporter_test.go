package fiscalxml_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/internal/infrastructure/fiscalxml"
)

func TestExportReceiptXML(t *testing.T) {
	doc := sales.ReceiptDocument{
		Sale: &entity.Sale{
			Number:        42,
			Total:         decimal.RequireFromString("12.50"),
			PaymentMethod: entity.PaymentCash,
			AmountPaid:    decimal.RequireFromString("20"),
			Change:        decimal.RequireFromString("7.50"),
			Items: []entity.SaleItem{
				{ProductID: "p-1", Code: "7891000100103", Name: "Café & Cia", Price: decimal.RequireFromString("9")},
				{ProductID: "p-2", Name: "Pão", Price: decimal.RequireFromString("3.5")},
			},
			Operator: "Maria",
		},
		Issuer:   receipt.DefaultIssuer(),
		IssuedAt: time.Date(2026, 1, 31, 10, 5, 9, 0, time.UTC),
	}

	out, err := fiscalxml.NewCFeExporter().ExportReceiptXML(doc)
	require.NoError(t, err)

	x := etree.NewDocument()
	require.NoError(t, x.ReadFromBytes(out))

	inf := x.FindElement("/CFe/infCFe")
	require.NotNil(t, inf)
	assert.Equal(t, "CFe06270840000150000000042", inf.SelectAttrValue("Id", ""))
	assert.Equal(t, "000042", x.FindElement("//ide/nCFe").Text())
	assert.Equal(t, "20260131", x.FindElement("//ide/dEmi").Text())
	assert.Equal(t, "100509", x.FindElement("//ide/hEmi").Text())
	assert.Equal(t, "06270840000150", x.FindElement("//emit/CNPJ").Text())

	dets := x.FindElements("//det")
	require.Len(t, dets, 2)
	assert.Equal(t, "Café & Cia", dets[0].FindElement("prod/xProd").Text())
	assert.Equal(t, "7891000100103", dets[0].FindElement("prod/cEAN").Text())
	assert.Nil(t, dets[1].FindElement("prod/cEAN"))
	assert.Equal(t, "p-2", dets[1].FindElement("prod/cProd").Text())
	assert.Equal(t, "3.50", dets[1].FindElement("prod/vProd").Text())

	assert.Equal(t, "12.50", x.FindElement("//total/vCFe").Text())
	assert.Equal(t, "2.81", x.FindElement("//total/vCFeLei12741").Text())
	assert.Equal(t, "01", x.FindElement("//pgto/MP/cMP").Text())
	assert.Equal(t, "20.00", x.FindElement("//pgto/MP/vMP").Text())
	assert.Equal(t, "7.50", x.FindElement("//pgto/vTroco").Text())
}

func TestExportReceiptXML_SinVenta(t *testing.T) {
	_, err := fiscalxml.NewCFeExporter().ExportReceiptXML(sales.ReceiptDocument{})
	assert.Error(t, err)
}
