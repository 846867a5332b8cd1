package licensing_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldtnet/pdv-api/internal/application/licensing"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/onboarding"
	"github.com/ldtnet/pdv-api/internal/infrastructure/session"
)

const taxID = "06270840000150"

type wizardDeps struct {
	uc        *licensing.WizardUseCase
	svc       *licensing.LicenseService
	companies *memCompanies
	licenses  *memLicenses
	lookup    *fakeLookup
	payments  *fakePayments
	storage   *fakeStorage
	clock     *clock
}

func newWizard(t *testing.T) *wizardDeps {
	t.Helper()
	svc, companies, licenses, clk := newService()
	lookup := &fakeLookup{data: map[string]onboarding.CompanyForm{
		taxID: {
			LegalName:      "LDT NET TELECOMUNICACOES LTDA",
			TradeName:      "LDT NET",
			Classification: "Provedores de acesso às redes de comunicações",
			PostalCode:     "59020-265",
			Street:         "AV AFONSO PENA",
			Number:         "1206",
			District:       "TIROL",
			City:           "NATAL",
			State:          "RN",
		},
	}}
	payments := newFakePayments()
	storage := &fakeStorage{}
	uc := licensing.NewWizardUseCase(svc, lookup, payments, storage, session.NewMemoryStore(0), nil, nil)
	n := 0
	uc.NewSessionID = func() string {
		n++
		return "sess-" + strings.Repeat("x", n)
	}
	return &wizardDeps{uc: uc, svc: svc, companies: companies, licenses: licenses, lookup: lookup, payments: payments, storage: storage, clock: clk}
}

// completa empresa y contacto hasta la selección de plan.
func (d *wizardDeps) toPlanSelection(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	res, err := d.uc.Start(ctx, "")
	require.NoError(t, err)
	sid := res.SessionID

	res, err = d.uc.EditCompany(ctx, sid, onboarding.CompanyForm{TaxID: "06.270.840/0001-50"})
	require.NoError(t, err)
	require.Empty(t, res.Warning)
	require.Equal(t, "LDT NET TELECOMUNICACOES LTDA", res.State.Company.LegalName)

	_, err = d.uc.SubmitCompany(ctx, sid)
	require.NoError(t, err)
	_, err = d.uc.EditContact(ctx, sid, onboarding.ContactForm{ResponsiblePerson: "Lucas Dantas", Email: "lucas@ldtnet.com.br", Phone: "(84) 99876-5432"})
	require.NoError(t, err)
	res, err = d.uc.ConfirmContact(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, onboarding.StepPlanSelection, res.State.Step)
	return sid
}

func TestWizard_E2E_Trial(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)

	res, err := d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	require.NoError(t, err)

	assert.Equal(t, onboarding.StepActivated, res.State.Step)
	require.NotNil(t, res.State.Activation)
	assert.True(t, res.State.Activation.ExpiresAt.Equal(t0.AddDate(0, 0, 15)))
	assert.Empty(t, d.payments.requests, "la prueba no crea cobro")

	company, err := d.svc.FindCompanyByTaxID(ctx, taxID)
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, "Lucas Dantas", company.ResponsiblePerson)
	assert.Equal(t, "59020265", company.PostalCode)

	lic, err := d.svc.FindActiveLicenseByCompanyID(ctx, company.ID)
	require.NoError(t, err)
	require.NotNil(t, lic)
	assert.Equal(t, entity.PlanTrial, lic.Plan)
	assert.Equal(t, res.State.Activation.ActivationKey, lic.ActivationKey)
	assert.Equal(t, []string{taxID}, d.lookup.calls)
}

func TestWizard_E2E_Mensal(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)

	res, err := d.uc.SelectPlan(ctx, sid, entity.PlanMonthly)
	require.NoError(t, err)
	require.Equal(t, onboarding.StepPaymentOrActivation, res.State.Step)
	require.NotNil(t, res.State.Charge)

	require.Len(t, d.payments.requests, 1)
	req := d.payments.requests[0]
	licenseID := res.State.Charge.LicenseID
	assert.Equal(t, "49.90", req.Amount.StringFixed(2))
	assert.Contains(t, req.Reference, "LDT-LIC-"+licenseID[:8]+"-")
	assert.Equal(t, "Pagamento licença PDV - LDT NET", req.PayerMessage)
	assert.Equal(t, "06.270.840/0001-50", req.Info[2].Value)
	assert.NotEmpty(t, res.State.Charge.PixCode)

	stored, _ := d.licenses.GetByID(ctx, licenseID)
	assert.Equal(t, entity.LicensePending, stored.Status)
	require.NotNil(t, stored.ChargeID)
	assert.Equal(t, res.State.Charge.ChargeID, *stored.ChargeID)

	// pendiente: el paso no cambia
	res, err = d.uc.CheckPayment(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPaymentOrActivation, res.State.Step)
	assert.Equal(t, "ATIVA", res.PaymentStatus)

	// liquidado
	d.clock.Advance(90 * time.Minute)
	confirmed := d.clock.Now()
	d.payments.status = "CONCLUIDA"
	res, err = d.uc.CheckPayment(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepActivated, res.State.Step)
	assert.Equal(t, "CONCLUIDA", res.PaymentStatus)

	stored, _ = d.licenses.GetByID(ctx, licenseID)
	assert.Equal(t, entity.LicenseActive, stored.Status)
	assert.True(t, stored.ExpiresAt.Equal(confirmed.AddDate(0, 1, 0)))
	assert.True(t, stored.ActivatedAt.Equal(confirmed))
}

func TestWizard_RecebidaTambienLiquida(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)

	_, err := d.uc.SelectPlan(ctx, sid, entity.PlanAnnual)
	require.NoError(t, err)
	d.payments.status = "recebida"
	res, err := d.uc.CheckPayment(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepActivated, res.State.Step)
}

func TestWizard_FalloDelCobroNoCambiaEstado(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)

	d.payments.createErr = errors.New("503 service unavailable")
	_, err := d.uc.SelectPlan(ctx, sid, entity.PlanMonthly)
	assert.ErrorIs(t, err, domain.ErrPaymentProvider)

	res, err := d.uc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPlanSelection, res.State.Step)
	assert.Nil(t, res.State.Charge)
}

func TestWizard_FalloConsultandoCobro(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)
	_, err := d.uc.SelectPlan(ctx, sid, entity.PlanMonthly)
	require.NoError(t, err)

	d.payments.getErr = errors.New("timeout")
	_, err = d.uc.CheckPayment(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrPaymentProvider)

	res, err := d.uc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPaymentOrActivation, res.State.Step)
}

func TestWizard_VolverDescartaCobro(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)
	_, err := d.uc.SelectPlan(ctx, sid, entity.PlanMonthly)
	require.NoError(t, err)

	res, err := d.uc.Back(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPlanSelection, res.State.Step)
	assert.Nil(t, res.State.Charge)

	// se puede elegir otro plan
	res, err = d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepActivated, res.State.Step)
}

func TestWizard_ConsultaFallidaEsAdvertencia(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	res, err := d.uc.Start(ctx, "")
	require.NoError(t, err)

	res, err = d.uc.EditCompany(ctx, res.SessionID, onboarding.CompanyForm{TaxID: "11222333000181"})
	require.NoError(t, err)
	assert.Contains(t, res.Warning, "não encontrado")
	assert.Equal(t, onboarding.StepCompanyDetails, res.State.Step)

	// misma edición no repite la consulta
	_, err = d.uc.EditCompany(ctx, res.SessionID, onboarding.CompanyForm{TaxID: "11222333000181", LegalName: "Mercadinho"})
	require.NoError(t, err)
	assert.Equal(t, []string{"11222333000181"}, d.lookup.calls)

	d.lookup.err = errors.New("dial tcp: timeout")
	res, err = d.uc.EditCompany(ctx, res.SessionID, onboarding.CompanyForm{TaxID: "33000167000101", LegalName: "Mercadinho"})
	require.NoError(t, err)
	assert.Contains(t, res.Warning, "Não foi possível")
	assert.Equal(t, "Mercadinho", res.State.Company.LegalName)
}

func TestWizard_GuardasDeValidacion(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	res, err := d.uc.Start(ctx, "")
	require.NoError(t, err)
	sid := res.SessionID

	_, err = d.uc.SubmitCompany(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = d.uc.ConfirmContact(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = d.uc.SelectPlan(ctx, sid, entity.PlanType("vitalicio"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = d.uc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWizard_ConfirmarSinEmailNoGuarda(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	res, err := d.uc.Start(ctx, "")
	require.NoError(t, err)
	sid := res.SessionID
	_, err = d.uc.EditCompany(ctx, sid, onboarding.CompanyForm{TaxID: taxID})
	require.NoError(t, err)
	_, err = d.uc.SubmitCompany(ctx, sid)
	require.NoError(t, err)
	_, err = d.uc.EditContact(ctx, sid, onboarding.ContactForm{ResponsiblePerson: "Lucas"})
	require.NoError(t, err)

	_, err = d.uc.ConfirmContact(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrValidation)
	c, _ := d.svc.FindCompanyByTaxID(ctx, taxID)
	assert.Nil(t, c)
}

func TestWizard_FalloDelAlmacenAlConfirmar(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	res, err := d.uc.Start(ctx, "")
	require.NoError(t, err)
	sid := res.SessionID
	_, err = d.uc.EditCompany(ctx, sid, onboarding.CompanyForm{TaxID: taxID})
	require.NoError(t, err)
	_, err = d.uc.SubmitCompany(ctx, sid)
	require.NoError(t, err)
	_, err = d.uc.EditContact(ctx, sid, onboarding.ContactForm{ResponsiblePerson: "Lucas", Email: "l@x.com"})
	require.NoError(t, err)

	d.companies.err = errors.New("too many connections")
	_, err = d.uc.ConfirmContact(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrStore)

	res, err = d.uc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepContactDetails, res.State.Step)
}

func TestWizard_ReanudarConLicenciaActiva(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)
	_, err := d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	require.NoError(t, err)

	res, err := d.uc.Start(ctx, "06.270.840/0001-50")
	require.NoError(t, err)
	assert.NotEqual(t, sid, res.SessionID)
	assert.Equal(t, onboarding.StepActivated, res.State.Step)
	require.NotNil(t, res.State.Activation)
	assert.Equal(t, entity.PlanTrial, res.State.Activation.Plan)
	assert.True(t, res.State.Activation.ExpiresAt.Equal(t0.AddDate(0, 0, 15)))
}

func TestWizard_ReanudarPorCNPJNoExponeClaveNiContacto(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)
	activated, err := d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	require.NoError(t, err)
	require.NotEmpty(t, activated.State.Activation.ActivationKey, "la sesión que activa recibe la clave")

	res, err := d.uc.Start(ctx, "06.270.840/0001-50")
	require.NoError(t, err)
	require.NotNil(t, res.State.Activation)
	assert.Empty(t, res.State.Activation.ActivationKey)
	assert.Equal(t, onboarding.ContactForm{}, res.State.Contact)

	// tampoco queda guardado en la sesión nueva
	got, err := d.uc.Get(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Empty(t, got.State.Activation.ActivationKey)
	assert.Empty(t, got.State.Contact.Email)
	assert.Empty(t, got.State.Contact.Phone)
}

func TestWizard_GetConLicenciaVencidaVuelveAPlan(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)
	_, err := d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	require.NoError(t, err)

	res, err := d.uc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepActivated, res.State.Step)

	d.clock.Advance(16 * 24 * time.Hour)
	res, err = d.uc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPlanSelection, res.State.Step)
	assert.Nil(t, res.State.Activation)
	assert.Empty(t, res.State.Plan)

	lics := d.licenses.all()
	require.Len(t, lics, 1)
	assert.Equal(t, entity.LicenseExpired, lics[0].Status)

	// la sesión puede elegir plan de nuevo
	res, err = d.uc.SelectPlan(ctx, sid, entity.PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPaymentOrActivation, res.State.Step)
}

func TestWizard_GetFalloDelAlmacenAlVerificarLicencia(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)
	_, err := d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	require.NoError(t, err)

	d.licenses.err = errors.New("conexión rechazada")
	_, err = d.uc.Get(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrStore)

	d.licenses.err = nil
	res, err := d.uc.Get(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepActivated, res.State.Step)
}

func TestWizard_ReanudarSinLicencia(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	_ = d.toPlanSelection(t)

	res, err := d.uc.Start(ctx, taxID)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPlanSelection, res.State.Step)
	assert.Equal(t, "LDT NET TELECOMUNICACOES LTDA", res.State.Company.LegalName)
	assert.Empty(t, res.State.Contact.ResponsiblePerson)
	assert.NotEmpty(t, res.State.CompanyID)

	// con la licencia vencida también vuelve a la selección de plan
	res, err = d.uc.SelectPlan(ctx, res.SessionID, entity.PlanTrial)
	require.NoError(t, err)
	d.clock.Advance(16 * 24 * time.Hour)
	res, err = d.uc.Start(ctx, taxID)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepPlanSelection, res.State.Step)
}

func TestWizard_CNPJDesconocidoEmpiezaDeCero(t *testing.T) {
	d := newWizard(t)
	res, err := d.uc.Start(context.Background(), "11222333000181")
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepCompanyDetails, res.State.Step)
}

func TestWizard_UploadLogo(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	res, err := d.uc.Start(ctx, "")
	require.NoError(t, err)
	sid := res.SessionID
	_, err = d.uc.EditCompany(ctx, sid, onboarding.CompanyForm{TaxID: taxID})
	require.NoError(t, err)

	_, err = d.uc.UploadLogo(ctx, sid, licensing.LogoUpload{Filename: "logo.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = d.uc.UploadLogo(ctx, sid, licensing.LogoUpload{Filename: "logo.png", ContentType: "image/png", Size: licensing.MaxLogoSize + 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	res, err = d.uc.UploadLogo(ctx, sid, licensing.LogoUpload{Filename: "Logo.PNG", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")})
	require.NoError(t, err)
	require.Len(t, d.storage.keys, 1)
	assert.Equal(t, "logos/06270840000150-"+strconv.FormatInt(t0.UnixMilli(), 10)+".png", d.storage.keys[0])
	assert.Equal(t, "https://cdn.example.test/logos-empresas/"+d.storage.keys[0], res.State.LogoURL)
}

func TestWizard_VerifyKey(t *testing.T) {
	d := newWizard(t)
	ctx := context.Background()
	sid := d.toPlanSelection(t)
	res, err := d.uc.SelectPlan(ctx, sid, entity.PlanTrial)
	require.NoError(t, err)

	lic, err := d.uc.VerifyKey(ctx, " "+res.State.Activation.ActivationKey+" ")
	require.NoError(t, err)
	assert.Equal(t, res.State.Activation.LicenseID, lic.ID)

	_, err = d.uc.VerifyKey(ctx, "LDT-NET-X")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChargeReference(t *testing.T) {
	assert.Equal(t, "LDT-LIC-3f2a9c1b-1769853600000", licensing.ChargeReference("3f2a9c1b-aaaa-bbbb-cccc-123456789012", t0))
}
