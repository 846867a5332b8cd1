package onboarding

import (
	"fmt"
	"strings"

	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
)

// Reduce aplica la acción al estado y devuelve el estado siguiente.
// Es pura: no hace E/S ni muta s. Un error deja al llamador con el estado anterior.
func Reduce(s State, a Action) (State, error) {
	next := s.clone()

	switch act := a.(type) {
	case CompanyEdited:
		if err := expectStep(s, a, StepCompanyDetails); err != nil {
			return s, err
		}
		form := normalizeCompany(act.Form)
		if form.TaxID != s.Company.TaxID {
			// otra empresa: el id resuelto antes ya no aplica
			next.CompanyID = ""
		}
		next.Company = form
		return next, nil

	case LookupSucceeded:
		if err := expectStep(s, a, StepCompanyDetails); err != nil {
			return s, err
		}
		if act.TaxID != s.Company.TaxID {
			return s, nil // resultado de un CNPJ que ya se editó
		}
		next.Company = mergeLookup(next.Company, normalizeCompany(act.Data))
		next.LastLookupTaxID = act.TaxID
		return next, nil

	case LookupFailed:
		if err := expectStep(s, a, StepCompanyDetails); err != nil {
			return s, err
		}
		if act.TaxID == s.Company.TaxID {
			next.LastLookupTaxID = act.TaxID
		}
		return next, nil

	case CompanySubmitted:
		if err := expectStep(s, a, StepCompanyDetails); err != nil {
			return s, err
		}
		if err := ValidateCompany(s.Company); err != nil {
			return s, err
		}
		next.Step = StepContactDetails
		return next, nil

	case ContactEdited:
		if err := expectStep(s, a, StepContactDetails); err != nil {
			return s, err
		}
		next.Contact = ContactForm{
			ResponsiblePerson: strings.TrimSpace(act.Form.ResponsiblePerson),
			Email:             strings.TrimSpace(act.Form.Email),
			Phone:             cnpj.Digits(act.Form.Phone),
		}
		return next, nil

	case LogoAttached:
		if err := expectStep(s, a, StepCompanyDetails, StepContactDetails); err != nil {
			return s, err
		}
		next.LogoURL = act.URL
		return next, nil

	case CompanySaved:
		if err := expectStep(s, a, StepContactDetails); err != nil {
			return s, err
		}
		if err := ValidateContact(s.Contact); err != nil {
			return s, err
		}
		if act.CompanyID == "" {
			return s, fmt.Errorf("%w: empresa sin id", domain.ErrInvalidInput)
		}
		next.CompanyID = act.CompanyID
		next.Step = StepPlanSelection
		return next, nil

	case ChargeCreated:
		if err := expectStep(s, a, StepPlanSelection); err != nil {
			return s, err
		}
		if s.CompanyID == "" {
			return s, fmt.Errorf("%w: empresa no guardada", domain.ErrInvalidTransition)
		}
		if act.Plan == entity.PlanTrial {
			return s, fmt.Errorf("%w: el plan de prueba no genera cobro", domain.ErrInvalidTransition)
		}
		charge := act.Charge
		next.Plan = act.Plan
		next.Charge = &charge
		next.Activation = nil
		next.Step = StepPaymentOrActivation
		return next, nil

	case TrialActivated:
		if err := expectStep(s, a, StepPlanSelection); err != nil {
			return s, err
		}
		if s.CompanyID == "" {
			return s, fmt.Errorf("%w: empresa no guardada", domain.ErrInvalidTransition)
		}
		activation := act.Activation
		next.Plan = entity.PlanTrial
		next.Charge = nil
		next.Activation = &activation
		next.Step = StepActivated
		return next, nil

	case PaymentPending:
		if err := expectStep(s, a, StepPaymentOrActivation); err != nil {
			return s, err
		}
		if next.Charge == nil {
			return s, fmt.Errorf("%w: no hay cobro en curso", domain.ErrInvalidTransition)
		}
		next.Charge.Status = act.Status
		return next, nil

	case PaymentSettled:
		if err := expectStep(s, a, StepPaymentOrActivation); err != nil {
			return s, err
		}
		if next.Charge == nil {
			return s, fmt.Errorf("%w: no hay cobro en curso", domain.ErrInvalidTransition)
		}
		activation := act.Activation
		next.Activation = &activation
		next.Step = StepActivated
		return next, nil

	case BackRequested:
		switch s.Step {
		case StepContactDetails:
			next.Step = StepCompanyDetails
		case StepPlanSelection:
			next.Step = StepContactDetails
		case StepPaymentOrActivation:
			// el cobro abandonado no se anula en el proveedor; vence solo
			next.Charge = nil
			next.Plan = ""
			next.Step = StepPlanSelection
		default:
			return s, fmt.Errorf("%w: no hay paso anterior a %s", domain.ErrInvalidTransition, s.Step)
		}
		return next, nil

	case LicenseLapsed:
		if err := expectStep(s, a, StepActivated); err != nil {
			return s, err
		}
		next.Activation = nil
		next.Charge = nil
		next.Plan = ""
		next.Step = StepPlanSelection
		return next, nil

	case Resumed:
		if act.Company == nil {
			return s, fmt.Errorf("%w: reanudación sin empresa", domain.ErrInvalidInput)
		}
		next.Company, next.Contact = FromCompany(act.Company)
		next.CompanyID = act.Company.ID
		next.LogoURL = act.Company.LogoURL
		next.LastLookupTaxID = act.Company.TaxID
		next.Charge = nil
		if act.Activation != nil {
			activation := *act.Activation
			next.Activation = &activation
			next.Plan = activation.Plan
			next.Step = StepActivated
		} else {
			next.Activation = nil
			next.Plan = ""
			next.Step = StepPlanSelection
		}
		return next, nil
	}

	return s, fmt.Errorf("%w: acción desconocida %T", domain.ErrInvalidTransition, a)
}

// NeedsLookup informa si corresponde consultar el CNPJ: 14 dígitos y distinto del último consultado.
func NeedsLookup(s State) bool {
	return s.Step == StepCompanyDetails &&
		cnpj.IsComplete(s.Company.TaxID) &&
		s.Company.TaxID != s.LastLookupTaxID
}

// ValidateCompany guardas del paso 1: CNPJ completo con dígitos verificadores válidos y razón social.
func ValidateCompany(f CompanyForm) error {
	if !cnpj.IsComplete(f.TaxID) {
		return fmt.Errorf("%w: el CNPJ debe tener 14 dígitos", domain.ErrValidation)
	}
	if !cnpj.IsValid(f.TaxID) {
		return fmt.Errorf("%w: dígitos verificadores del CNPJ inválidos", domain.ErrValidation)
	}
	if strings.TrimSpace(f.LegalName) == "" {
		return fmt.Errorf("%w: la razón social es obligatoria", domain.ErrValidation)
	}
	return nil
}

// ValidateContact guardas del paso 2: responsable y email.
func ValidateContact(f ContactForm) error {
	if strings.TrimSpace(f.ResponsiblePerson) == "" {
		return fmt.Errorf("%w: el responsable es obligatorio", domain.ErrValidation)
	}
	if strings.TrimSpace(f.Email) == "" {
		return fmt.Errorf("%w: el email es obligatorio", domain.ErrValidation)
	}
	return nil
}

func expectStep(s State, a Action, allowed ...Step) error {
	for _, st := range allowed {
		if s.Step == st {
			return nil
		}
	}
	return fmt.Errorf("%w: %s no permitido en %s", domain.ErrInvalidTransition, a.actionName(), s.Step)
}

func normalizeCompany(f CompanyForm) CompanyForm {
	f.TaxID = cnpj.Normalize(f.TaxID)
	f.PostalCode = cnpj.Digits(f.PostalCode)
	if len(f.PostalCode) > 8 {
		f.PostalCode = f.PostalCode[:8]
	}
	f.State = cnpj.NormalizeUF(f.State)
	f.StateRegistration = strings.TrimSpace(f.StateRegistration)
	f.MunicipalReg = strings.TrimSpace(f.MunicipalReg)
	return f
}

// mergeLookup sobrescribe con los campos no vacíos de la consulta.
// IM y datos de contacto no vienen de la consulta y se conservan.
func mergeLookup(cur, found CompanyForm) CompanyForm {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&cur.LegalName, found.LegalName)
	set(&cur.TradeName, found.TradeName)
	set(&cur.Classification, found.Classification)
	set(&cur.StateRegistration, found.StateRegistration)
	set(&cur.PostalCode, found.PostalCode)
	set(&cur.Street, found.Street)
	set(&cur.Number, found.Number)
	set(&cur.Complement, found.Complement)
	set(&cur.District, found.District)
	set(&cur.City, found.City)
	set(&cur.State, found.State)
	return cur
}
