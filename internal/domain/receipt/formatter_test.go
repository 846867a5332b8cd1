package receipt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldtnet/pdv-api/internal/domain/receipt"
)

var frozen = time.Date(2026, 10, 15, 14, 30, 5, 0, time.UTC)

func sampleInput() receipt.Input {
	return receipt.Input{
		Issuer: receipt.DefaultIssuer(),
		Number: 42,
		Items: []receipt.Line{
			{Code: "7891000100103", Name: "Leite Integral 1L", Price: decimal.RequireFromString("5.49")},
			{Name: "Pão francês", Price: decimal.RequireFromString("7.01")},
		},
		Total:      decimal.RequireFromString("12.50"),
		AmountPaid: decimal.RequireFromString("20"),
		Change:     decimal.RequireFromString("7.50"),
		Operator:   "Maria Silva",
	}
}

func TestFormat_LayoutCompleto(t *testing.T) {
	want := strings.Join([]string{
		"LDT NET TELECOM",
		"AV AFONSO PENA, 1206 - TIROL",
		"NATAL - RN    CEP: 59020265",
		"",
		"CNPJ: 06.270.840/0001-50    15/10/2026",
		"IE: 20.558.140-4            14:30:05",
		"IM: 00333666                CCF:120289",
		"                            CCD:124857",
		"",
		"CUPOM FISCAL  COO:000042",
		"",
		"ITEM CÓD. DESC.                 VALOR",
		"001 7891000100103  Leite Integral 1L         R$5,49",
		"002 ---  Pão francês               R$7,01",
		"",
		"DINHEIRO R$20,00          TOTAL R$12,50",
		"TROCO    R$7,50",
		"IMPOSTOS 22,5% R$2,81",
		"",
		"PIX: 06.270.840/0001-50",
		"",
		"TI 01T 17,00%",
		"ND-5:2COF4658121658HO56874Q5",
		"OPERADOR: MARIA SILVA - SAIR",
		"456HDOS7 HUKSOJAH56 UHNL9634 896QH86CK0",
		"BEMATECH MP-40 TH FI ECF-IF",
		"VER.01.002 ECF/002 LJ.001",
		"QQQQQOETUTITU 15/10/2026 14:30:05",
		"FAB: BE09912789753009677",
	}, "\n") + "\n"

	assert.Equal(t, want, receipt.Format(sampleInput(), frozen))
}

// Mismas entradas y reloj congelado producen exactamente los mismos bytes.
func TestFormat_Determinista(t *testing.T) {
	assert.Equal(t, receipt.Format(sampleInput(), frozen), receipt.Format(sampleInput(), frozen))
}

func TestFormat_ContieneNombresYPreciosConComa(t *testing.T) {
	out := receipt.Format(sampleInput(), frozen)
	for _, s := range []string{"Leite Integral 1L", "R$5,49", "Pão francês", "R$7,01", "TOTAL R$12,50"} {
		assert.Contains(t, out, s)
	}
	assert.NotContains(t, out, "5.49")
}

func TestFormat_ValoresPorDefecto(t *testing.T) {
	in := receipt.Input{
		Issuer: receipt.DefaultIssuer(),
		Items:  []receipt.Line{{Name: "Item", Price: decimal.NewFromInt(100)}},
		Total:  decimal.NewFromInt(100),
	}
	out := receipt.Format(in, frozen)

	assert.Contains(t, out, "DINHEIRO R$100,00          TOTAL R$100,00", "pago por defecto igual al total")
	assert.Contains(t, out, "TROCO    R$0,00")
	assert.Contains(t, out, "IMPOSTOS 22,5% R$22,50", "impuesto por defecto 22,5% del total")
	assert.Contains(t, out, "OPERADOR: OPERADOR NÃO IDENTIFICADO - SAIR")
	assert.Contains(t, out, "\nCUPOM FISCAL\n")
}

func TestFormat_ImpuestoInformado(t *testing.T) {
	in := sampleInput()
	tax := decimal.RequireFromString("1.10")
	in.Tax = &tax
	in.PaymentLabel = "PIX"

	out := receipt.Format(in, frozen)
	assert.Contains(t, out, "IMPOSTOS 22,5% R$1,10")
	assert.Contains(t, out, "PIX      R$20,00")
}

func TestWhatsAppLink(t *testing.T) {
	link := receipt.WhatsAppLink("(84) 99876-5432", "TOTAL R$12,50\nOK & fim")
	assert.Equal(t, "https://wa.me/5584998765432?text=TOTAL%20R%2412%2C50%0AOK%20%26%20fim", link)
}

func TestEncodeCP850(t *testing.T) {
	b, err := receipt.EncodeCP850("CÓD. Pão")
	require.NoError(t, err)
	assert.Len(t, b, len("CÓD. Pão")-2, "cada acento ocupa un byte")
	assert.Equal(t, byte(0xE0), b[1], "Ó en CP850")
}
