// Package fiscalxml exporta una venta a XML con el layout del CF-e (cupom fiscal eletrônico).
// El documento no va firmado ni se transmite a la SEFAZ; sirve para contabilidad e integración.
package fiscalxml

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
)

const layoutVersion = "0.08"

var _ sales.ReceiptXMLExporter = (*CFeExporter)(nil)

// CFeExporter implementa sales.ReceiptXMLExporter.
type CFeExporter struct{}

// NewCFeExporter crea el exportador.
func NewCFeExporter() *CFeExporter { return &CFeExporter{} }

// paymentCode código del meio de pagamento (tabla cMP del CF-e).
func paymentCode(m entity.PaymentMethod) string {
	switch m {
	case entity.PaymentCash:
		return "01"
	case entity.PaymentCard:
		return "03"
	case entity.PaymentPix:
		return "17"
	default:
		return "99"
	}
}

func amount(d decimal.Decimal) string { return d.StringFixed(2) }

// ExportReceiptXML genera el XML indentado de la venta.
func (e *CFeExporter) ExportReceiptXML(doc sales.ReceiptDocument) ([]byte, error) {
	s := doc.Sale
	if s == nil {
		return nil, fmt.Errorf("fiscalxml: venta vacía")
	}
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	inf := x.CreateElement("CFe").CreateElement("infCFe")
	inf.CreateAttr("versaoDadosEnt", layoutVersion)
	inf.CreateAttr("Id", fmt.Sprintf("CFe%s%09d", cnpj.Digits(doc.Issuer.CNPJ), s.Number))

	ide := inf.CreateElement("ide")
	ide.CreateElement("cUF").SetText(doc.Issuer.UF)
	ide.CreateElement("nCFe").SetText(fmt.Sprintf("%06d", s.Number))
	ide.CreateElement("dEmi").SetText(doc.IssuedAt.Format("20060102"))
	ide.CreateElement("hEmi").SetText(doc.IssuedAt.Format("150405"))
	ide.CreateElement("numeroCaixa").SetText("001")

	writeIssuer(inf.CreateElement("emit"), doc.Issuer)

	for i, it := range s.Items {
		det := inf.CreateElement("det")
		det.CreateAttr("nItem", fmt.Sprint(i+1))
		prod := det.CreateElement("prod")
		code := it.Code
		if code == "" {
			code = it.ProductID
		}
		prod.CreateElement("cProd").SetText(code)
		if len(it.Code) == 8 || len(it.Code) == 13 || len(it.Code) == 14 {
			prod.CreateElement("cEAN").SetText(it.Code)
		}
		prod.CreateElement("xProd").SetText(it.Name)
		prod.CreateElement("uCom").SetText("UN")
		prod.CreateElement("qCom").SetText("1.0000")
		prod.CreateElement("vUnCom").SetText(amount(it.Price))
		prod.CreateElement("vProd").SetText(amount(it.Price))
	}

	total := inf.CreateElement("total")
	total.CreateElement("vCFe").SetText(amount(s.Total))
	total.CreateElement("vCFeLei12741").SetText(amount(s.Total.Mul(receipt.TaxRate)))

	paid := s.AmountPaid
	if paid.IsZero() {
		paid = s.Total
	}
	pgto := inf.CreateElement("pgto")
	mp := pgto.CreateElement("MP")
	mp.CreateElement("cMP").SetText(paymentCode(s.PaymentMethod))
	mp.CreateElement("vMP").SetText(amount(paid))
	pgto.CreateElement("vTroco").SetText(amount(s.Change))

	if s.Operator != "" {
		inf.CreateElement("infAdic").CreateElement("infCpl").SetText("Operador: " + s.Operator)
	}

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("fiscalxml: serializar: %w", err)
	}
	return out, nil
}

func writeIssuer(emit *etree.Element, is receipt.Issuer) {
	emit.CreateElement("CNPJ").SetText(cnpj.Digits(is.CNPJ))
	emit.CreateElement("xNome").SetText(is.Name)
	addr := emit.CreateElement("enderEmit")
	addr.CreateElement("xLgr").SetText(is.Address)
	addr.CreateElement("xMun").SetText(is.City)
	addr.CreateElement("CEP").SetText(cnpj.Digits(is.CEP))
	emit.CreateElement("IE").SetText(cnpj.Digits(is.IE))
	if is.IM != "" {
		emit.CreateElement("IM").SetText(is.IM)
	}
}
