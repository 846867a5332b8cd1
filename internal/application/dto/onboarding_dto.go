package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/domain/onboarding"
)

// StartOnboardingRequest inicia o reanuda el asistente. TaxID es el último CNPJ guardado por el cliente.
type StartOnboardingRequest struct {
	TaxID string `json:"tax_id" validate:"omitempty,max=18"`
}

// CompanyFormRequest datos del paso 1 (se aceptan valores con máscara).
type CompanyFormRequest struct {
	TaxID             string `json:"tax_id" validate:"max=18"`
	LegalName         string `json:"legal_name" validate:"max=200"`
	TradeName         string `json:"trade_name" validate:"max=200"`
	Classification    string `json:"classification" validate:"max=300"`
	StateRegistration string `json:"state_registration" validate:"max=30"`
	MunicipalReg      string `json:"municipal_registration" validate:"max=30"`
	PostalCode        string `json:"postal_code" validate:"max=9"`
	Street            string `json:"street" validate:"max=200"`
	Number            string `json:"number" validate:"max=20"`
	Complement        string `json:"complement" validate:"max=100"`
	District          string `json:"district" validate:"max=100"`
	City              string `json:"city" validate:"max=100"`
	State             string `json:"state" validate:"max=2"`
}

// ToForm convierte al formulario del dominio.
func (r CompanyFormRequest) ToForm() onboarding.CompanyForm {
	return onboarding.CompanyForm{
		TaxID:             r.TaxID,
		LegalName:         r.LegalName,
		TradeName:         r.TradeName,
		Classification:    r.Classification,
		StateRegistration: r.StateRegistration,
		MunicipalReg:      r.MunicipalReg,
		PostalCode:        r.PostalCode,
		Street:            r.Street,
		Number:            r.Number,
		Complement:        r.Complement,
		District:          r.District,
		City:              r.City,
		State:             r.State,
	}
}

// ContactFormRequest datos del paso 2.
type ContactFormRequest struct {
	ResponsiblePerson string `json:"responsible_person" validate:"max=200"`
	Email             string `json:"email" validate:"omitempty,email,max=200"`
	Phone             string `json:"phone" validate:"max=20"`
}

// ToForm convierte al formulario del dominio.
func (r ContactFormRequest) ToForm() onboarding.ContactForm {
	return onboarding.ContactForm{
		ResponsiblePerson: r.ResponsiblePerson,
		Email:             r.Email,
		Phone:             r.Phone,
	}
}

// SelectPlanRequest plan elegido en el paso 3.
type SelectPlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=trial monthly annual"`
}

// OnboardingResponse estado del asistente devuelto al cliente.
// Warning informa fallos blandos (consulta de CNPJ sin resultado); PaymentStatus el último estado del cobro.
type OnboardingResponse struct {
	SessionID     string           `json:"session_id"`
	Step          int              `json:"step"`
	StepName      string           `json:"step_name"`
	State         onboarding.State `json:"state"`
	Warning       string           `json:"warning,omitempty"`
	PaymentStatus string           `json:"payment_status,omitempty"`
}

// PlanResponse entrada de la tabla de planes.
type PlanResponse struct {
	Plan        string          `json:"plan"`
	Price       decimal.Decimal `json:"price"`
	PriceLabel  string          `json:"price_label"`
	Description string          `json:"description"`
}

// LicenseResponse licencia vigente (verificación por clave).
type LicenseResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Plan          string          `json:"plan"`
	Value         decimal.Decimal `json:"value"`
	ActivationKey string          `json:"activation_key"`
	Status        string          `json:"status"`
	ActivatedAt   *time.Time      `json:"activated_at,omitempty"`
	ExpiresAt     time.Time       `json:"expires_at"`
}
