// Package receipt genera el texto de ancho fijo del cupom para impresoras térmicas.
package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ldtnet/pdv-api/pkg/money"
)

// TaxRate carga tributaria aproximada impresa cuando no se informa el valor.
var TaxRate = decimal.RequireFromString("0.225")

const (
	nameWidth       = 25
	headerColumn    = 28
	labelWidth      = 8
	unknownOperator = "OPERADOR NÃO IDENTIFICADO"
)

// Issuer identidad del emisor impresa en la cabecera.
type Issuer struct {
	Name    string
	Address string
	City    string
	UF      string
	CEP     string
	CNPJ    string
	IE      string
	IM      string
	CCF     string
	CCD     string
	PixKey  string
}

// DefaultIssuer emisor por defecto del PDV.
func DefaultIssuer() Issuer {
	return Issuer{
		Name:    "LDT NET TELECOM",
		Address: "AV AFONSO PENA, 1206 - TIROL",
		City:    "NATAL",
		UF:      "RN",
		CEP:     "59020265",
		CNPJ:    "06.270.840/0001-50",
		IE:      "20.558.140-4",
		IM:      "00333666",
		CCF:     "120289",
		CCD:     "124857",
		PixKey:  "06.270.840/0001-50",
	}
}

// Line ítem vendido con su precio congelado.
type Line struct {
	Code  string
	Name  string
	Price decimal.Decimal
}

// Input datos de un cupom.
type Input struct {
	Issuer       Issuer
	Number       int64 // 0 = sin numeración
	Items        []Line
	Total        decimal.Decimal
	AmountPaid   decimal.Decimal // cero = igual al total
	Change       decimal.Decimal
	Tax          *decimal.Decimal // nil = 22,5% del total
	PaymentLabel string           // vacío = DINHEIRO
	Operator     string
}

// Format devuelve el cupom completo. Es determinista: mismas entradas y mismo now producen los mismos bytes.
func Format(in Input, now time.Time) string {
	upper := cases.Upper(language.BrazilianPortuguese)
	date := now.Format("02/01/2006")
	clock := now.Format("15:04:05")

	paid := in.AmountPaid
	if paid.IsZero() {
		paid = in.Total
	}
	tax := in.Total.Mul(TaxRate)
	if in.Tax != nil {
		tax = *in.Tax
	}
	label := in.PaymentLabel
	if label == "" {
		label = "DINHEIRO"
	}
	operator := strings.TrimSpace(in.Operator)
	if operator == "" {
		operator = unknownOperator
	}
	pix := in.Issuer.PixKey
	if pix == "" {
		pix = in.Issuer.CNPJ
	}

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s", upper.String(in.Issuer.Name))
	line("%s", upper.String(in.Issuer.Address))
	line("%s - %s    CEP: %s", upper.String(in.Issuer.City), in.Issuer.UF, in.Issuer.CEP)
	line("")
	line("%s", columns("CNPJ: "+in.Issuer.CNPJ, date))
	line("%s", columns("IE: "+in.Issuer.IE, clock))
	line("%s", columns("IM: "+in.Issuer.IM, "CCF:"+in.Issuer.CCF))
	line("%s", columns("", "CCD:"+in.Issuer.CCD))
	line("")
	if in.Number > 0 {
		line("CUPOM FISCAL  COO:%06d", in.Number)
	} else {
		line("CUPOM FISCAL")
	}
	line("")
	line("ITEM CÓD. DESC.                 VALOR")
	for i, it := range in.Items {
		code := strings.TrimSpace(it.Code)
		if code == "" {
			code = "---"
		}
		line("%03d %s  %s R$%s", i+1, code, padRight(it.Name, nameWidth), money.Format(it.Price))
	}
	line("")
	line("%s R$%s          TOTAL R$%s", padRight(label, labelWidth), money.Format(paid), money.Format(in.Total))
	line("%s R$%s", padRight("TROCO", labelWidth), money.Format(in.Change))
	line("IMPOSTOS 22,5%% R$%s", money.Format(tax))
	line("")
	line("PIX: %s", pix)
	line("")
	line("TI 01T 17,00%%")
	line("ND-5:2COF4658121658HO56874Q5")
	line("OPERADOR: %s - SAIR", upper.String(operator))
	line("456HDOS7 HUKSOJAH56 UHNL9634 896QH86CK0")
	line("BEMATECH MP-40 TH FI ECF-IF")
	line("VER.01.002 ECF/002 LJ.001")
	line("QQQQQOETUTITU %s %s", date, clock)
	line("FAB: BE09912789753009677")
	return b.String()
}

// columns alinea right en la columna fija de la cabecera.
func columns(left, right string) string {
	if utf8.RuneCountInString(left) >= headerColumn {
		return left + " " + right
	}
	return padRight(left, headerColumn) + right
}

// padRight completa con espacios hasta width runas; no trunca.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
