package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/pos"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

// SaleUseCase cierre de venta, consulta de ventas y emisión del cupom en sus formatos.
type SaleUseCase struct {
	carts     *CartUseCase
	tx        SaleTxRunner
	saleRepo  repository.SaleRepository
	customers repository.CustomerRepository
	issuer    receipt.Issuer
	pdf       ReceiptPDFGenerator
	xml       ReceiptXMLExporter
	log       *logger.Logger

	// Now reloj inyectable; por defecto time.Now.
	Now func() time.Time
}

// NewSaleUseCase construye el caso de uso inyectando todas sus dependencias.
func NewSaleUseCase(
	carts *CartUseCase,
	tx SaleTxRunner,
	saleRepo repository.SaleRepository,
	customers repository.CustomerRepository,
	issuer receipt.Issuer,
	pdf ReceiptPDFGenerator,
	xml ReceiptXMLExporter,
	log *logger.Logger,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		carts:     carts,
		tx:        tx,
		saleRepo:  saleRepo,
		customers: customers,
		issuer:    issuer,
		pdf:       pdf,
		xml:       xml,
		log:       log.Named("sales"),
		Now:       time.Now,
	}
}

// Checkout registra la venta del carrito del operador, descuenta stock, limpia el
// carrito y devuelve el cupom. Con whatsapp registra al cliente (nombre y teléfono)
// si no existe y arma el enlace para compartir el cupom.
func (uc *SaleUseCase) Checkout(ctx context.Context, operator string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	method := entity.PaymentMethod(in.PaymentMethod)
	cart, err := uc.carts.Get(ctx, operator)
	if err != nil {
		return nil, err
	}
	settlement, err := pos.Settle(cart, method, in.AmountPaid)
	if err != nil {
		return nil, err
	}

	customerID, err := uc.resolveCustomer(ctx, in)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Total:         settlement.Total,
		PaymentMethod: method,
		AmountPaid:    settlement.Paid,
		Change:        settlement.Change,
		Items:         cart.Items,
		CustomerID:    customerID,
		Operator:      operator,
		CreatedAt:     now,
	}

	// ── Transacción: venta + stock ───────────────────────────────────────────
	err = uc.tx.RunSale(ctx, func(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) error {
		if err := saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("registrar venta: %w", err)
		}
		for _, it := range sale.Items {
			if it.ProductID == "" {
				continue
			}
			if err := productRepo.DecrementStock(ctx, it.ProductID); err != nil {
				return fmt.Errorf("descontar stock %s: %w", it.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("operator", operator).Msg("checkout")
		return nil, err
	}

	if err := uc.carts.Clear(ctx, operator); err != nil {
		// la venta ya quedó registrada; el carrito se puede cancelar a mano
		uc.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("limpiar carrito tras la venta")
	}
	uc.log.Info().Str("sale_id", sale.ID).Int64("number", sale.Number).Str("method", string(method)).Msg("venta registrada")

	text := receipt.Format(uc.receiptInput(sale), sale.CreatedAt)
	out := &dto.CheckoutResponse{Sale: ToSaleResponse(sale), Receipt: text}
	if method == entity.PaymentWhatsApp {
		out.WhatsAppLink = receipt.WhatsAppLink(in.CustomerPhone, text)
	}
	return out, nil
}

func (uc *SaleUseCase) resolveCustomer(ctx context.Context, in dto.CheckoutRequest) (*string, error) {
	if in.CustomerID != "" {
		id := in.CustomerID
		return &id, nil
	}
	name := strings.TrimSpace(in.CustomerName)
	phone := cnpj.Digits(in.CustomerPhone)
	if entity.PaymentMethod(in.PaymentMethod) != entity.PaymentWhatsApp || name == "" || phone == "" {
		return nil, nil
	}
	existing, err := uc.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &existing.ID, nil
	}
	c := &entity.Customer{ID: uuid.New().String(), Name: name, Phone: phone, CreatedAt: uc.Now()}
	if err := uc.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return &c.ID, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

// List devuelve las ventas más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, err := uc.saleRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina una venta.
func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	return uc.saleRepo.Delete(ctx, id)
}

// ── Cupom ────────────────────────────────────────────────────────────────────

// Document arma el cupom de una venta registrada; la fecha impresa es la de la venta.
func (uc *SaleUseCase) Document(ctx context.Context, saleID string) (*ReceiptDocument, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return &ReceiptDocument{
		Sale:     sale,
		Issuer:   uc.issuer,
		Text:     receipt.Format(uc.receiptInput(sale), sale.CreatedAt),
		IssuedAt: sale.CreatedAt,
	}, nil
}

// ReceiptPDF devuelve el PDF del cupom y el nombre de archivo sugerido.
func (uc *SaleUseCase) ReceiptPDF(ctx context.Context, saleID string) ([]byte, string, error) {
	doc, err := uc.Document(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateReceiptPDF(ctx, *doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf del cupom: %w", err)
	}
	return b, fmt.Sprintf("cupom-%06d.pdf", doc.Sale.Number), nil
}

// ReceiptXML devuelve la venta exportada a XML.
func (uc *SaleUseCase) ReceiptXML(ctx context.Context, saleID string) ([]byte, string, error) {
	doc, err := uc.Document(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.xml.ExportReceiptXML(*doc)
	if err != nil {
		return nil, "", fmt.Errorf("xml del cupom: %w", err)
	}
	return b, fmt.Sprintf("cupom-%06d.xml", doc.Sale.Number), nil
}

// ReceiptForPrinter devuelve el cupom codificado en CP850 para impresoras térmicas.
func (uc *SaleUseCase) ReceiptForPrinter(ctx context.Context, saleID string) ([]byte, error) {
	doc, err := uc.Document(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return receipt.EncodeCP850(doc.Text)
}

// ReceiptWhatsApp arma el enlace wa.me con el cupom de la venta.
func (uc *SaleUseCase) ReceiptWhatsApp(ctx context.Context, saleID, phone string) (string, error) {
	if len(cnpj.Digits(phone)) < 10 {
		return "", fmt.Errorf("%w: teléfono inválido", domain.ErrInvalidInput)
	}
	doc, err := uc.Document(ctx, saleID)
	if err != nil {
		return "", err
	}
	return receipt.WhatsAppLink(phone, doc.Text), nil
}

func (uc *SaleUseCase) receiptInput(s *entity.Sale) receipt.Input {
	lines := make([]receipt.Line, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, receipt.Line{Code: it.Code, Name: it.Name, Price: it.Price})
	}
	return receipt.Input{
		Issuer:       uc.issuer,
		Number:       s.Number,
		Items:        lines,
		Total:        s.Total,
		AmountPaid:   s.AmountPaid,
		Change:       s.Change,
		PaymentLabel: s.PaymentMethod.Label(),
		Operator:     s.Operator,
	}
}

// ToSaleResponse convierte la entidad al DTO de salida.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{ProductID: it.ProductID, Code: it.Code, Name: it.Name, Price: it.Price})
	}
	return dto.SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		AmountPaid:    s.AmountPaid,
		Change:        s.Change,
		Items:         items,
		CustomerID:    s.CustomerID,
		Operator:      s.Operator,
		CreatedAt:     s.CreatedAt,
	}
}
