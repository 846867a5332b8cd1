package licensing_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/onboarding"
)

// ── Almacén en memoria ──────────────────────────────────────────────────────

type memCompanies struct {
	mu    sync.Mutex
	byTax map[string]*entity.Company
	err   error
}

func newMemCompanies() *memCompanies {
	return &memCompanies{byTax: map[string]*entity.Company{}}
}

func (r *memCompanies) FindByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.byTax[taxID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byTax {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCompanies) Upsert(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if prev, ok := r.byTax[c.TaxID]; ok {
		c.ID = prev.ID
		c.CreatedAt = prev.CreatedAt
	}
	cp := *c
	r.byTax[c.TaxID] = &cp
	return nil
}

type memLicenses struct {
	mu   sync.Mutex
	byID map[string]*entity.License
	err  error
}

func newMemLicenses() *memLicenses {
	return &memLicenses{byID: map[string]*entity.License{}}
}

func (r *memLicenses) Create(_ context.Context, l *entity.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, other := range r.byID {
		if other.ActivationKey == l.ActivationKey {
			return domain.ErrDuplicate
		}
	}
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *memLicenses) GetByID(_ context.Context, id string) (*entity.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *memLicenses) FindLatestActiveByCompany(_ context.Context, companyID string) (*entity.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var latest *entity.License
	for _, l := range r.byID {
		if l.CompanyID != companyID || l.Status != entity.LicenseActive {
			continue
		}
		if latest == nil || l.CreatedAt.After(latest.CreatedAt) {
			latest = l
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *memLicenses) FindActiveByKey(_ context.Context, key string) (*entity.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.byID {
		if l.ActivationKey == key && l.Status == entity.LicenseActive {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memLicenses) UpdateStatus(_ context.Context, id string, status entity.LicenseStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = status
	return nil
}

func (r *memLicenses) SetCharge(_ context.Context, id, chargeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.ChargeID = &chargeID
	return nil
}

func (r *memLicenses) Activate(_ context.Context, id string, activatedAt, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = entity.LicenseActive
	l.ActivatedAt = &activatedAt
	l.ExpiresAt = expiresAt
	return nil
}

func (r *memLicenses) all() []*entity.License {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.License, 0, len(r.byID))
	for _, l := range r.byID {
		cp := *l
		out = append(out, &cp)
	}
	return out
}

// ── Consulta de CNPJ ────────────────────────────────────────────────────────

type fakeLookup struct {
	data  map[string]onboarding.CompanyForm
	err   error
	calls []string
}

func (f *fakeLookup) LookupCompany(_ context.Context, taxID string) (*onboarding.CompanyForm, error) {
	f.calls = append(f.calls, taxID)
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.data[taxID]
	if !ok {
		return nil, ports.ErrTaxIDNotFound
	}
	return &d, nil
}

// ── Proveedor de pagos ──────────────────────────────────────────────────────

type fakePayments struct {
	requests  []ports.ChargeRequest
	status    string
	createErr error
	getErr    error
	charges   map[string]*entity.Charge
}

func newFakePayments() *fakePayments {
	return &fakePayments{status: "ATIVA", charges: map[string]*entity.Charge{}}
}

func (f *fakePayments) CreateCharge(_ context.Context, req ports.ChargeRequest) (*entity.Charge, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.requests = append(f.requests, req)
	c := &entity.Charge{
		ID:          "pix-" + req.Reference,
		Amount:      req.Amount,
		Status:      "ATIVA",
		PixCode:     "00020126580014br.gov.bcb.pix",
		QRCodeImage: "https://example.test/qr.png",
		ExternalRef: req.Reference,
	}
	f.charges[c.ID] = c
	return c, nil
}

func (f *fakePayments) GetCharge(_ context.Context, id string) (*entity.Charge, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.charges[id]
	if !ok {
		return nil, errors.New("cobro inexistente")
	}
	cp := *c
	cp.Status = f.status
	return &cp, nil
}

// ── Almacenamiento de objetos ───────────────────────────────────────────────

type fakeStorage struct {
	keys []string
	err  error
}

func (f *fakeStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.test/logos-empresas/" + key, nil
}

// ── Reloj ───────────────────────────────────────────────────────────────────

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }
