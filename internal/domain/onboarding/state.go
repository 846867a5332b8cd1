// Package onboarding modela el asistente de registro y activación del PDV como
// un valor de estado inmutable y una función reductora pura. Los efectos remotos
// (consulta de CNPJ, persistencia, cobros) los ejecuta la capa de aplicación, que
// despacha la acción correspondiente solo cuando la llamada remota tuvo éxito.
package onboarding

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// Step paso del asistente. Los números coinciden con los que ve el usuario.
type Step int

const (
	StepCompanyDetails      Step = 1
	StepContactDetails      Step = 2
	StepPlanSelection       Step = 3
	StepPaymentOrActivation Step = 4
	StepActivated           Step = 5
)

func (s Step) String() string {
	switch s {
	case StepCompanyDetails:
		return "company_details"
	case StepContactDetails:
		return "contact_details"
	case StepPlanSelection:
		return "plan_selection"
	case StepPaymentOrActivation:
		return "payment_or_activation"
	case StepActivated:
		return "activated"
	}
	return "unknown"
}

// CompanyForm datos fiscales y de dirección del paso 1.
type CompanyForm struct {
	TaxID             string `json:"tax_id"`
	LegalName         string `json:"legal_name"`
	TradeName         string `json:"trade_name"`
	Classification    string `json:"classification"`
	StateRegistration string `json:"state_registration"`
	MunicipalReg      string `json:"municipal_registration"`
	PostalCode        string `json:"postal_code"`
	Street            string `json:"street"`
	Number            string `json:"number"`
	Complement        string `json:"complement"`
	District          string `json:"district"`
	City              string `json:"city"`
	State             string `json:"state"`
}

// ContactForm datos de contacto del paso 2.
type ContactForm struct {
	ResponsiblePerson string `json:"responsible_person"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
}

// PendingCharge cobro Pix en curso. Se descarta al volver a la selección de plan.
type PendingCharge struct {
	LicenseID   string          `json:"license_id"`
	ChargeID    string          `json:"charge_id"`
	Amount      decimal.Decimal `json:"amount"`
	PixCode     string          `json:"pix_code"`
	QRCodeImage string          `json:"qr_code_image"`
	Status      string          `json:"status"`
}

// Activation licencia activa que cierra el asistente.
type Activation struct {
	LicenseID     string          `json:"license_id"`
	ActivationKey string          `json:"activation_key,omitempty"`
	Plan          entity.PlanType `json:"plan"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

// State estado completo del asistente. Se trata como valor: Reduce devuelve una copia nueva.
type State struct {
	Step            Step            `json:"step"`
	Company         CompanyForm     `json:"company"`
	Contact         ContactForm     `json:"contact"`
	LogoURL         string          `json:"logo_url,omitempty"`
	CompanyID       string          `json:"company_id,omitempty"`
	LastLookupTaxID string          `json:"last_lookup_tax_id,omitempty"`
	Plan            entity.PlanType `json:"plan,omitempty"`
	Charge          *PendingCharge  `json:"charge,omitempty"`
	Activation      *Activation     `json:"activation,omitempty"`
}

// Initial estado de una sesión nueva.
func Initial() State {
	return State{Step: StepCompanyDetails}
}

// clone copia los punteros para que el estado anterior no se vea afectado.
func (s State) clone() State {
	if s.Charge != nil {
		c := *s.Charge
		s.Charge = &c
	}
	if s.Activation != nil {
		a := *s.Activation
		s.Activation = &a
	}
	return s
}

// Redacted copia sin la clave de activación ni los datos de contacto. Es lo que ve
// una sesión abierta solo con el CNPJ, que es un dato público.
func (s State) Redacted() State {
	next := s.clone()
	next.Contact = ContactForm{}
	if next.Activation != nil {
		next.Activation.ActivationKey = ""
	}
	return next
}

// FromCompany arma el formulario del paso 1 a partir de una empresa guardada.
func FromCompany(c *entity.Company) (CompanyForm, ContactForm) {
	company := CompanyForm{
		TaxID:             c.TaxID,
		LegalName:         c.LegalName,
		TradeName:         c.TradeName,
		Classification:    c.Classification,
		StateRegistration: c.StateRegistration,
		MunicipalReg:      c.MunicipalReg,
		PostalCode:        c.PostalCode,
		Street:            c.Street,
		Number:            c.Number,
		Complement:        c.Complement,
		District:          c.District,
		City:              c.City,
		State:             c.State,
	}
	contact := ContactForm{
		ResponsiblePerson: c.ResponsiblePerson,
		Email:             c.Email,
		Phone:             c.Phone,
	}
	return company, contact
}

// ToCompany arma la entidad a guardar con los datos acumulados en el estado.
func (s State) ToCompany() *entity.Company {
	return &entity.Company{
		ID:                s.CompanyID,
		TaxID:             s.Company.TaxID,
		LegalName:         s.Company.LegalName,
		TradeName:         s.Company.TradeName,
		Classification:    s.Company.Classification,
		StateRegistration: s.Company.StateRegistration,
		MunicipalReg:      s.Company.MunicipalReg,
		ResponsiblePerson: s.Contact.ResponsiblePerson,
		Email:             s.Contact.Email,
		Phone:             s.Contact.Phone,
		PostalCode:        s.Company.PostalCode,
		Street:            s.Company.Street,
		Number:            s.Company.Number,
		Complement:        s.Company.Complement,
		District:          s.Company.District,
		City:              s.Company.City,
		State:             s.Company.State,
		LogoURL:           s.LogoURL,
	}
}
