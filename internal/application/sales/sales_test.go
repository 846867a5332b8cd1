package sales_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
	"github.com/ldtnet/pdv-api/internal/infrastructure/session"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type memProducts struct {
	mu   sync.Mutex
	byID map[string]*entity.Product
}

func (r *memProducts) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProducts) List(context.Context) ([]*entity.Product, error) { return nil, nil }

func (r *memProducts) Update(ctx context.Context, p *entity.Product) error { return r.Create(ctx, p) }

func (r *memProducts) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memProducts) DecrementStock(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok && p.StockQuantity > 0 {
		p.StockQuantity--
	}
	return nil
}

type memSales struct {
	byID   map[string]*entity.Sale
	seq    int64
	failOn bool
}

func (r *memSales) Create(_ context.Context, s *entity.Sale) error {
	if r.failOn {
		return errors.New("deadlock detected")
	}
	r.seq++
	s.Number = r.seq
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *memSales) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if s, ok := r.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *memSales) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	out := make([]*entity.Sale, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSales) ListSince(context.Context, time.Time) ([]*entity.Sale, error) { return nil, nil }

func (r *memSales) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type memCustomers struct {
	list []*entity.Customer
}

func (r *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	r.list = append(r.list, c)
	return nil
}

func (r *memCustomers) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	for _, c := range r.list {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCustomers) List(context.Context) ([]*entity.Customer, error) { return r.list, nil }

// fakeTx ejecuta fn sin transacción real.
type fakeTx struct {
	sales    *memSales
	products *memProducts
}

func (f fakeTx) RunSale(_ context.Context, fn func(repository.SaleRepository, repository.ProductRepository) error) error {
	return fn(f.sales, f.products)
}

type fakePDF struct{}

func (fakePDF) GenerateReceiptPDF(_ context.Context, doc sales.ReceiptDocument) ([]byte, error) {
	return []byte("%PDF-1.3 " + doc.Sale.ID), nil
}

type fakeXML struct{}

func (fakeXML) ExportReceiptXML(sales.ReceiptDocument) ([]byte, error) {
	return []byte("<cupom/>"), nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

var saleTime = time.Date(2026, 10, 15, 9, 41, 0, 0, time.UTC)

type salesDeps struct {
	carts     *sales.CartUseCase
	uc        *sales.SaleUseCase
	products  *memProducts
	sales     *memSales
	customers *memCustomers
}

func newSales(t *testing.T) *salesDeps {
	t.Helper()
	products := &memProducts{byID: map[string]*entity.Product{
		"11111111-1111-1111-1111-111111111111": {ID: "11111111-1111-1111-1111-111111111111", Code: "7891000100103", Name: "Leite Integral 1L", Price: decimal.RequireFromString("5.49"), StockQuantity: 10},
		"22222222-2222-2222-2222-222222222222": {ID: "22222222-2222-2222-2222-222222222222", Name: "Pão francês kg", Price: decimal.RequireFromString("7.01")},
	}}
	salesRepo := &memSales{byID: map[string]*entity.Sale{}}
	customers := &memCustomers{}
	carts := sales.NewCartUseCase(session.NewMemoryStore(0), products)
	uc := sales.NewSaleUseCase(carts, fakeTx{sales: salesRepo, products: products}, salesRepo, customers, receipt.DefaultIssuer(), fakePDF{}, fakeXML{}, nil)
	uc.Now = func() time.Time { return saleTime }
	return &salesDeps{carts: carts, uc: uc, products: products, sales: salesRepo, customers: customers}
}

func (d *salesDeps) fillCart(t *testing.T, operator string) {
	t.Helper()
	ctx := context.Background()
	_, err := d.carts.Add(ctx, operator, dto.AddCartItemRequest{Code: "7891000100103"})
	require.NoError(t, err)
	_, err = d.carts.Add(ctx, operator, dto.AddCartItemRequest{ProductID: "22222222-2222-2222-2222-222222222222"})
	require.NoError(t, err)
}

// ── Carrito ──────────────────────────────────────────────────────────────────

func TestCart_AgregarQuitarLimpiar(t *testing.T) {
	d := newSales(t)
	ctx := context.Background()
	d.fillCart(t, "maria")

	cart, err := d.carts.Get(ctx, "Maria")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "12.50", cart.Total().StringFixed(2))

	resp := sales.ToCartResponse(cart)
	assert.Equal(t, "R$ 12,50", resp.TotalLabel)
	assert.Equal(t, 1, resp.Items[1].Index)

	cart, err = d.carts.Remove(ctx, "maria", 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Pão francês kg", cart.Items[0].Name)

	require.NoError(t, d.carts.Clear(ctx, "maria"))
	cart, err = d.carts.Get(ctx, "maria")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCart_CarritosPorOperador(t *testing.T) {
	d := newSales(t)
	d.fillCart(t, "maria")

	cart, err := d.carts.Get(context.Background(), "joao")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCart_ProductoInexistente(t *testing.T) {
	d := newSales(t)
	_, err := d.carts.Add(context.Background(), "maria", dto.AddCartItemRequest{Code: "000"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Checkout ─────────────────────────────────────────────────────────────────

func TestCheckout_Dinheiro(t *testing.T) {
	d := newSales(t)
	ctx := context.Background()
	d.fillCart(t, "maria")

	out, err := d.uc.Checkout(ctx, "maria", dto.CheckoutRequest{PaymentMethod: "dinheiro", AmountPaid: decimal.NewFromInt(20)})
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.Sale.Number)
	assert.Equal(t, "7.50", out.Sale.Change.StringFixed(2))
	assert.Empty(t, out.WhatsAppLink)
	assert.Contains(t, out.Receipt, "CUPOM FISCAL  COO:000001")
	assert.Contains(t, out.Receipt, "DINHEIRO R$20,00          TOTAL R$12,50")
	assert.Contains(t, out.Receipt, "TROCO    R$7,50")
	assert.Contains(t, out.Receipt, "OPERADOR: MARIA - SAIR")
	assert.Contains(t, out.Receipt, "15/10/2026")

	leite, _ := d.products.GetByID(ctx, "11111111-1111-1111-1111-111111111111")
	assert.Equal(t, 9, leite.StockQuantity)
	pao, _ := d.products.GetByID(ctx, "22222222-2222-2222-2222-222222222222")
	assert.Equal(t, 0, pao.StockQuantity, "sin control de stock no baja de cero")

	cart, _ := d.carts.Get(ctx, "maria")
	assert.True(t, cart.IsEmpty())
}

func TestCheckout_PagoInsuficiente(t *testing.T) {
	d := newSales(t)
	d.fillCart(t, "maria")

	_, err := d.uc.Checkout(context.Background(), "maria", dto.CheckoutRequest{PaymentMethod: "dinheiro", AmountPaid: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.Empty(t, d.sales.byID)
}

func TestCheckout_CarritoVacio(t *testing.T) {
	d := newSales(t)
	_, err := d.uc.Checkout(context.Background(), "maria", dto.CheckoutRequest{PaymentMethod: "pix"})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckout_WhatsAppRegistraCliente(t *testing.T) {
	d := newSales(t)
	ctx := context.Background()
	d.fillCart(t, "maria")

	out, err := d.uc.Checkout(ctx, "maria", dto.CheckoutRequest{
		PaymentMethod: "whatsapp",
		CustomerName:  "Ana Souza",
		CustomerPhone: "(84) 99876-5432",
	})
	require.NoError(t, err)

	require.Len(t, d.customers.list, 1)
	assert.Equal(t, "84998765432", d.customers.list[0].Phone)
	require.NotNil(t, out.Sale.CustomerID)
	assert.Equal(t, d.customers.list[0].ID, *out.Sale.CustomerID)
	assert.True(t, strings.HasPrefix(out.WhatsAppLink, "https://wa.me/5584998765432?text="))
	assert.Contains(t, out.Receipt, "WHATSAPP R$12,50")

	// segundo envío al mismo teléfono reutiliza el cliente
	d.fillCart(t, "maria")
	_, err = d.uc.Checkout(ctx, "maria", dto.CheckoutRequest{PaymentMethod: "whatsapp", CustomerName: "Ana", CustomerPhone: "84998765432"})
	require.NoError(t, err)
	assert.Len(t, d.customers.list, 1)
}

func TestCheckout_FalloEnTransaccionConservaCarrito(t *testing.T) {
	d := newSales(t)
	ctx := context.Background()
	d.fillCart(t, "maria")
	d.sales.failOn = true

	_, err := d.uc.Checkout(ctx, "maria", dto.CheckoutRequest{PaymentMethod: "pix"})
	assert.ErrorContains(t, err, "deadlock")

	cart, _ := d.carts.Get(ctx, "maria")
	assert.Len(t, cart.Items, 2)
}

// ── Cupom de una venta registrada ────────────────────────────────────────────

func TestReceipt_Formatos(t *testing.T) {
	d := newSales(t)
	ctx := context.Background()
	d.fillCart(t, "maria")
	out, err := d.uc.Checkout(ctx, "maria", dto.CheckoutRequest{PaymentMethod: "cartao"})
	require.NoError(t, err)

	doc, err := d.uc.Document(ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Receipt, doc.Text, "el cupom reimpreso es idéntico al emitido")

	b, name, err := d.uc.ReceiptPDF(ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cupom-000001.pdf", name)
	assert.True(t, strings.HasPrefix(string(b), "%PDF"))

	_, name, err = d.uc.ReceiptXML(ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cupom-000001.xml", name)

	raw, err := d.uc.ReceiptForPrinter(ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Less(t, len(raw), len(out.Receipt), "acentos ocupan un byte en CP850")

	link, err := d.uc.ReceiptWhatsApp(ctx, out.Sale.ID, "84 3222-1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/558432221234?text="))

	_, err = d.uc.ReceiptWhatsApp(ctx, out.Sale.ID, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = d.uc.Document(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSales_ListaRecientesPrimero(t *testing.T) {
	d := newSales(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d.fillCart(t, "maria")
		_, err := d.uc.Checkout(ctx, "maria", dto.CheckoutRequest{PaymentMethod: "pix"})
		require.NoError(t, err)
	}

	list, err := d.uc.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(3), list.Items[0].Number)
	assert.Equal(t, 2, list.Page.Limit)
}
