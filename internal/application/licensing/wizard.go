package licensing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/onboarding"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

// MaxLogoSize tamaño máximo del logo de la empresa (2 MB).
const MaxLogoSize = 2 << 20

const sessionPrefix = "onboarding:"

// DefaultPaidStatuses estados del cobro que indican pago liquidado.
var DefaultPaidStatuses = []string{"CONCLUIDA", "RECEBIDA"}

// Result estado del asistente tras una operación.
type Result struct {
	SessionID     string
	State         onboarding.State
	Warning       string // fallo blando: la consulta de CNPJ no trajo datos
	PaymentStatus string // literal del proveedor en la última consulta
}

// session valor persistido por sesión.
type session struct {
	State onboarding.State `json:"state"`
}

// LogoUpload archivo recibido en el paso de contacto.
type LogoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// WizardUseCase ejecuta los efectos del asistente de registro y activación.
// Cada operación lee el estado de la sesión, hace la llamada remota y, solo si
// tuvo éxito, aplica la acción con onboarding.Reduce y guarda el estado nuevo.
// Un error deja el estado guardado intacto.
type WizardUseCase struct {
	licenses *LicenseService
	lookup   ports.TaxIDLookup
	payments ports.PaymentProvider
	storage  ports.ObjectStorage
	sessions ports.SessionStore
	paid     map[string]struct{}
	log      *logger.Logger

	// NewSessionID generador de ids de sesión; por defecto UUID v4.
	NewSessionID func() string
}

// NewWizardUseCase construye el caso de uso. storage puede ser nil si no hay
// almacenamiento de logos configurado.
func NewWizardUseCase(
	licenses *LicenseService,
	lookup ports.TaxIDLookup,
	payments ports.PaymentProvider,
	storage ports.ObjectStorage,
	sessions ports.SessionStore,
	paidStatuses []string,
	log *logger.Logger,
) *WizardUseCase {
	if len(paidStatuses) == 0 {
		paidStatuses = DefaultPaidStatuses
	}
	paid := make(map[string]struct{}, len(paidStatuses))
	for _, s := range paidStatuses {
		paid[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WizardUseCase{
		licenses:     licenses,
		lookup:       lookup,
		payments:     payments,
		storage:      storage,
		sessions:     sessions,
		paid:         paid,
		log:          log.Named("onboarding"),
		NewSessionID: func() string { return uuid.New().String() },
	}
}

// ── Carga y reanudación ──────────────────────────────────────────────────────

// Start abre una sesión nueva. Con un CNPJ ya guardado: si la empresa tiene licencia
// activa el asistente queda en Activated; si no, retoma en la selección de plan.
// El estado reanudado no trae la clave de activación ni el contacto de la empresa.
func (uc *WizardUseCase) Start(ctx context.Context, lastTaxID string) (*Result, error) {
	sess := session{State: onboarding.Initial()}

	if taxID := cnpj.Normalize(lastTaxID); taxID != "" {
		company, err := uc.licenses.FindCompanyByTaxID(ctx, taxID)
		if err != nil {
			uc.log.Error().Err(err).Str("tax_id", logger.MaskTaxID(taxID)).Msg("reanudar asistente")
			return nil, err
		}
		if company != nil {
			resumed, err := uc.resume(ctx, sess.State, company)
			if err != nil {
				return nil, err
			}
			sess.State = resumed.Redacted()
		}
	}

	id := uc.NewSessionID()
	if err := uc.save(ctx, id, sess); err != nil {
		return nil, err
	}
	return &Result{SessionID: id, State: sess.State}, nil
}

func (uc *WizardUseCase) resume(ctx context.Context, s onboarding.State, company *entity.Company) (onboarding.State, error) {
	lic, err := uc.licenses.FindActiveLicenseByCompanyID(ctx, company.ID)
	if err != nil {
		return s, err
	}
	act := onboarding.Resumed{Company: company}
	if lic != nil {
		act.Activation = activationOf(lic)
	}
	return onboarding.Reduce(s, act)
}

// Get devuelve el estado actual de la sesión. Una sesión en Activated vuelve a la
// selección de plan si la licencia de la empresa ya no está activa.
func (uc *WizardUseCase) Get(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s := sess.State
	if s.Step != onboarding.StepActivated || s.CompanyID == "" {
		return &Result{SessionID: sessionID, State: s}, nil
	}

	lic, err := uc.licenses.FindActiveLicenseByCompanyID(ctx, s.CompanyID)
	if err != nil {
		uc.log.Error().Err(err).Str("session_id", sessionID).Str("company_id", s.CompanyID).Msg("verificar licencia de la sesión")
		return nil, err
	}
	if lic != nil {
		return &Result{SessionID: sessionID, State: s}, nil
	}
	next, err := onboarding.Reduce(s, onboarding.LicenseLapsed{})
	if err != nil {
		return nil, err
	}
	sess.State = next
	if err := uc.save(ctx, sessionID, *sess); err != nil {
		return nil, err
	}
	return &Result{SessionID: sessionID, State: next}, nil
}

// ── Paso 1: empresa ──────────────────────────────────────────────────────────

// EditCompany aplica la edición del formulario. Cuando el CNPJ llega a 14 dígitos y
// no fue consultado todavía, consulta los datos registrales y completa el formulario.
// La consulta fallida no es error: el resultado lleva Warning y el usuario completa a mano.
func (uc *WizardUseCase) EditCompany(ctx context.Context, sessionID string, form onboarding.CompanyForm) (*Result, error) {
	var warning string
	res, err := uc.apply(ctx, sessionID, func(sess *session) error {
		next, err := onboarding.Reduce(sess.State, onboarding.CompanyEdited{Form: form})
		if err != nil {
			return err
		}
		if onboarding.NeedsLookup(next) {
			next, warning = uc.lookupCompany(ctx, sessionID, next)
		}
		sess.State = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Warning = warning
	return res, nil
}

func (uc *WizardUseCase) lookupCompany(ctx context.Context, sessionID string, s onboarding.State) (onboarding.State, string) {
	taxID := s.Company.TaxID
	data, err := uc.lookup.LookupCompany(ctx, taxID)
	if err == nil && data != nil {
		if next, rerr := onboarding.Reduce(s, onboarding.LookupSucceeded{TaxID: taxID, Data: *data}); rerr == nil {
			return next, ""
		}
	}

	warning := "CNPJ não encontrado. Preencha os dados manualmente."
	if err != nil && !errors.Is(err, ports.ErrTaxIDNotFound) {
		warning = "Não foi possível consultar o CNPJ. Preencha os dados manualmente."
		uc.log.Warn().Err(err).
			Str("session_id", sessionID).
			Str("tax_id", logger.MaskTaxID(taxID)).
			Msg("consulta de CNPJ falló")
	}
	next, rerr := onboarding.Reduce(s, onboarding.LookupFailed{TaxID: taxID})
	if rerr != nil {
		return s, warning
	}
	return next, warning
}

// SubmitCompany avanza al paso de contacto (CNPJ completo y razón social).
func (uc *WizardUseCase) SubmitCompany(ctx context.Context, sessionID string) (*Result, error) {
	return uc.dispatch(ctx, sessionID, onboarding.CompanySubmitted{})
}

// ── Paso 2: contacto ─────────────────────────────────────────────────────────

// EditContact aplica la edición de los datos de contacto.
func (uc *WizardUseCase) EditContact(ctx context.Context, sessionID string, form onboarding.ContactForm) (*Result, error) {
	return uc.dispatch(ctx, sessionID, onboarding.ContactEdited{Form: form})
}

// UploadLogo guarda el logo en el almacenamiento de objetos (≤ 2 MB, image/*)
// con la clave logos/<cnpj>-<ms>.<ext> y registra su URL pública en el estado.
func (uc *WizardUseCase) UploadLogo(ctx context.Context, sessionID string, up LogoUpload) (*Result, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("%w: almacenamiento de logos", domain.ErrNotConfigured)
	}
	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return nil, fmt.Errorf("%w: el logo debe ser una imagen", domain.ErrValidation)
	}
	if up.Size <= 0 || up.Size > MaxLogoSize {
		return nil, fmt.Errorf("%w: el logo debe tener hasta 2 MB", domain.ErrValidation)
	}

	return uc.apply(ctx, sessionID, func(sess *session) error {
		taxID := sess.State.Company.TaxID
		if taxID == "" {
			taxID = "sem-cnpj"
		}
		key := fmt.Sprintf("logos/%s-%d%s", taxID, uc.licenses.Now().UnixMilli(), logoExt(up))
		url, err := uc.storage.Put(ctx, key, up.Body, up.Size, up.ContentType)
		if err != nil {
			uc.log.Error().Err(err).Str("session_id", sessionID).Str("key", key).Msg("subir logo")
			return fmt.Errorf("subir logo: %w: %w", domain.ErrStore, err)
		}
		next, err := onboarding.Reduce(sess.State, onboarding.LogoAttached{URL: url})
		if err != nil {
			return err
		}
		sess.State = next
		return nil
	})
}

func logoExt(up LogoUpload) string {
	if ext := strings.ToLower(filepath.Ext(up.Filename)); ext != "" {
		return ext
	}
	if _, sub, ok := strings.Cut(strings.ToLower(up.ContentType), "/"); ok && sub != "" {
		return "." + strings.TrimSuffix(sub, "+xml")
	}
	return ".png"
}

// ConfirmContact guarda la empresa (alta o actualización por CNPJ) con el logo y
// avanza a la selección de plan.
func (uc *WizardUseCase) ConfirmContact(ctx context.Context, sessionID string) (*Result, error) {
	return uc.apply(ctx, sessionID, func(sess *session) error {
		s := sess.State
		if s.Step != onboarding.StepContactDetails {
			return fmt.Errorf("%w: confirmar contacto en %s", domain.ErrInvalidTransition, s.Step)
		}
		if err := onboarding.ValidateContact(s.Contact); err != nil {
			return err
		}
		company, err := uc.licenses.UpsertCompany(ctx, s.ToCompany())
		if err != nil {
			uc.log.Error().Err(err).
				Str("session_id", sessionID).
				Str("tax_id", logger.MaskTaxID(s.Company.TaxID)).
				Msg("guardar empresa")
			return err
		}
		next, err := onboarding.Reduce(s, onboarding.CompanySaved{CompanyID: company.ID})
		if err != nil {
			return err
		}
		sess.State = next
		return nil
	})
}

// ── Paso 3: plan ─────────────────────────────────────────────────────────────

// SelectPlan crea la licencia del plan. Prueba: se activa al instante sin cobro.
// Pago: crea el cobro Pix con la referencia LDT-LIC-<licencia[:8]>-<ms>, lo vincula
// a la licencia y expone el código copia e cola.
func (uc *WizardUseCase) SelectPlan(ctx context.Context, sessionID string, planType entity.PlanType) (*Result, error) {
	plan, err := uc.licenses.Catalog().Lookup(planType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	return uc.apply(ctx, sessionID, func(sess *session) error {
		s := sess.State
		if s.Step != onboarding.StepPlanSelection || s.CompanyID == "" {
			return fmt.Errorf("%w: elegir plan en %s", domain.ErrInvalidTransition, s.Step)
		}
		log := uc.log.WithSession(sessionID, s.Company.TaxID)

		lic, err := uc.licenses.InsertLicense(ctx, s.CompanyID, s.Company.TaxID, plan.Type)
		if err != nil {
			log.Error().Err(err).Str("plan", string(plan.Type)).Msg("crear licencia")
			return err
		}

		if plan.IsTrial() {
			next, err := onboarding.Reduce(s, onboarding.TrialActivated{Activation: *activationOf(lic)})
			if err != nil {
				return err
			}
			log.Info().Str("license_id", lic.ID).Time("expires_at", lic.ExpiresAt).Msg("licencia de prueba activada")
			sess.State = next
			return nil
		}

		charge, err := uc.payments.CreateCharge(ctx, chargeRequest(s, plan.Description, plan.Price, lic.ID, lic.CreatedAt))
		if err != nil {
			log.Error().Err(err).Str("license_id", lic.ID).Msg("crear cobro")
			return fmt.Errorf("crear cobro: %w: %w", domain.ErrPaymentProvider, err)
		}
		if err := uc.licenses.LinkExternalCharge(ctx, lic.ID, charge.ID); err != nil {
			log.Error().Err(err).Str("license_id", lic.ID).Str("charge_id", charge.ID).Msg("vincular cobro")
			return err
		}
		next, err := onboarding.Reduce(s, onboarding.ChargeCreated{
			Plan: plan.Type,
			Charge: onboarding.PendingCharge{
				LicenseID:   lic.ID,
				ChargeID:    charge.ID,
				Amount:      charge.Amount,
				PixCode:     charge.PixCode,
				QRCodeImage: charge.QRCodeImage,
				Status:      charge.Status,
			},
		})
		if err != nil {
			return err
		}
		log.Info().Str("license_id", lic.ID).Str("charge_id", charge.ID).Msg("cobro creado")
		sess.State = next
		return nil
	})
}

func chargeRequest(s onboarding.State, description string, amount decimal.Decimal, licenseID string, at time.Time) ports.ChargeRequest {
	legal := s.Company.LegalName
	if r := []rune(legal); len(r) > 40 {
		legal = string(r[:40])
	}
	payer := s.Company.TradeName
	if payer == "" {
		payer = s.Company.LegalName
	}
	return ports.ChargeRequest{
		Amount:       amount,
		Reference:    ChargeReference(licenseID, at),
		PayerMessage: "Pagamento licença PDV - " + payer,
		Info: []ports.ChargeInfo{
			{Name: "Licença", Value: description},
			{Name: "Empresa", Value: legal},
			{Name: "CNPJ", Value: cnpj.Format(s.Company.TaxID)},
		},
	}
}

// ChargeReference identificación externa del cobro: LDT-LIC-<8 primeros del id>-<unix ms>.
func ChargeReference(licenseID string, at time.Time) string {
	short := licenseID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("LDT-LIC-%s-%d", short, at.UnixMilli())
}

// ── Paso 4: pago ─────────────────────────────────────────────────────────────

// CheckPayment consulta el cobro a pedido del usuario. Liquidado: activa la licencia
// con vencimiento desde ahora. Otro estado: el paso no cambia y se informa el literal.
func (uc *WizardUseCase) CheckPayment(ctx context.Context, sessionID string) (*Result, error) {
	var status string
	res, err := uc.apply(ctx, sessionID, func(sess *session) error {
		s := sess.State
		if s.Step != onboarding.StepPaymentOrActivation || s.Charge == nil {
			return fmt.Errorf("%w: no hay cobro en curso", domain.ErrInvalidTransition)
		}
		log := uc.log.WithSession(sessionID, s.Company.TaxID)

		charge, err := uc.payments.GetCharge(ctx, s.Charge.ChargeID)
		if err != nil {
			log.Error().Err(err).Str("charge_id", s.Charge.ChargeID).Msg("consultar cobro")
			return fmt.Errorf("consultar cobro: %w: %w", domain.ErrPaymentProvider, err)
		}
		status = charge.Status

		if !uc.isPaid(charge.Status) {
			next, err := onboarding.Reduce(s, onboarding.PaymentPending{Status: charge.Status})
			if err != nil {
				return err
			}
			sess.State = next
			return nil
		}

		lic, err := uc.licenses.ActivateLicense(ctx, s.Charge.LicenseID)
		if err != nil {
			log.Error().Err(err).Str("license_id", s.Charge.LicenseID).Msg("activar licencia")
			return err
		}
		next, err := onboarding.Reduce(s, onboarding.PaymentSettled{Activation: *activationOf(lic)})
		if err != nil {
			return err
		}
		log.Info().Str("license_id", lic.ID).Str("charge_id", charge.ID).Time("expires_at", lic.ExpiresAt).Msg("licencia activada")
		sess.State = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.PaymentStatus = status
	return res, nil
}

func (uc *WizardUseCase) isPaid(status string) bool {
	_, ok := uc.paid[strings.ToUpper(strings.TrimSpace(status))]
	return ok
}

// Back vuelve al paso anterior. Desde el pago descarta el cobro sin anularlo en el proveedor.
func (uc *WizardUseCase) Back(ctx context.Context, sessionID string) (*Result, error) {
	return uc.dispatch(ctx, sessionID, onboarding.BackRequested{})
}

// ── Verificación de licencia ────────────────────────────────────────────────

// VerifyKey devuelve la licencia activa con esa clave o domain.ErrNotFound.
func (uc *WizardUseCase) VerifyKey(ctx context.Context, key string) (*entity.License, error) {
	lic, err := uc.licenses.FindActiveLicenseByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, domain.ErrNotFound
	}
	return lic, nil
}

// ── Sesión ───────────────────────────────────────────────────────────────────

func (uc *WizardUseCase) dispatch(ctx context.Context, sessionID string, act onboarding.Action) (*Result, error) {
	return uc.apply(ctx, sessionID, func(sess *session) error {
		next, err := onboarding.Reduce(sess.State, act)
		if err != nil {
			return err
		}
		sess.State = next
		return nil
	})
}

// apply carga la sesión, ejecuta fn y guarda solo si fn no devolvió error.
func (uc *WizardUseCase) apply(ctx context.Context, sessionID string, fn func(*session) error) (*Result, error) {
	sess, err := uc.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, sessionID, *sess); err != nil {
		return nil, err
	}
	return &Result{SessionID: sessionID, State: sess.State}, nil
}

func (uc *WizardUseCase) load(ctx context.Context, sessionID string) (*session, error) {
	if sessionID == "" {
		return nil, domain.ErrNotFound
	}
	var sess session
	ok, err := uc.sessions.Get(ctx, sessionPrefix+sessionID, &sess)
	if err != nil {
		return nil, fmt.Errorf("leer sesión: %w: %w", domain.ErrStore, err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sess, nil
}

func (uc *WizardUseCase) save(ctx context.Context, sessionID string, sess session) error {
	if err := uc.sessions.Set(ctx, sessionPrefix+sessionID, sess); err != nil {
		return fmt.Errorf("guardar sesión: %w: %w", domain.ErrStore, err)
	}
	return nil
}

func activationOf(l *entity.License) *onboarding.Activation {
	return &onboarding.Activation{
		LicenseID:     l.ID,
		ActivationKey: l.ActivationKey,
		Plan:          l.Plan,
		ExpiresAt:     l.ExpiresAt,
	}
}
