package onboarding

import "github.com/ldtnet/pdv-api/internal/domain/entity"

// Action evento que alimenta al reductor. El tipo concreto decide la transición.
type Action interface {
	actionName() string
}

// CompanyEdited el usuario editó el formulario de empresa.
type CompanyEdited struct{ Form CompanyForm }

// LookupSucceeded la consulta de CNPJ devolvió datos para TaxID.
type LookupSucceeded struct {
	TaxID string
	Data  CompanyForm
}

// LookupFailed la consulta de CNPJ falló o no encontró datos; el usuario completa a mano.
type LookupFailed struct{ TaxID string }

// CompanySubmitted el usuario avanza del paso 1 al 2.
type CompanySubmitted struct{}

// ContactEdited el usuario editó los datos de contacto.
type ContactEdited struct{ Form ContactForm }

// LogoAttached se subió el logo de la empresa.
type LogoAttached struct{ URL string }

// CompanySaved la empresa quedó guardada en el almacén remoto.
type CompanySaved struct{ CompanyID string }

// ChargeCreated se creó la licencia pendiente y su cobro Pix.
type ChargeCreated struct {
	Plan   entity.PlanType
	Charge PendingCharge
}

// TrialActivated la licencia de prueba quedó activa sin cobro.
type TrialActivated struct{ Activation Activation }

// PaymentPending la consulta del cobro devolvió un estado no liquidado.
type PaymentPending struct{ Status string }

// PaymentSettled el cobro fue liquidado y la licencia activada.
type PaymentSettled struct{ Activation Activation }

// BackRequested el usuario vuelve al paso anterior.
type BackRequested struct{}

// LicenseLapsed la licencia que cerró el asistente ya no está activa.
type LicenseLapsed struct{}

// Resumed reanudación desde datos guardados (empresa y, si existe, licencia activa).
type Resumed struct {
	Company    *entity.Company
	Activation *Activation
}

func (CompanyEdited) actionName() string    { return "company_edited" }
func (LookupSucceeded) actionName() string  { return "lookup_succeeded" }
func (LookupFailed) actionName() string     { return "lookup_failed" }
func (CompanySubmitted) actionName() string { return "company_submitted" }
func (ContactEdited) actionName() string    { return "contact_edited" }
func (LogoAttached) actionName() string     { return "logo_attached" }
func (CompanySaved) actionName() string     { return "company_saved" }
func (ChargeCreated) actionName() string    { return "charge_created" }
func (TrialActivated) actionName() string   { return "trial_activated" }
func (PaymentPending) actionName() string   { return "payment_pending" }
func (PaymentSettled) actionName() string   { return "payment_settled" }
func (BackRequested) actionName() string    { return "back_requested" }
func (LicenseLapsed) actionName() string    { return "license_lapsed" }
func (Resumed) actionName() string          { return "resumed" }

// ActionName nombre estable de la acción, para logs.
func ActionName(a Action) string {
	return a.actionName()
}
