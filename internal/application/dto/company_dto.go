package dto

import "time"

// CompanyResponse empresa licenciada con su licencia vigente (si existe).
type CompanyResponse struct {
	ID                string           `json:"id"`
	TaxID             string           `json:"tax_id"`
	TaxIDFormatted    string           `json:"tax_id_formatted"`
	LegalName         string           `json:"legal_name"`
	TradeName         string           `json:"trade_name"`
	Classification    string           `json:"classification,omitempty"`
	StateRegistration string           `json:"state_registration,omitempty"`
	MunicipalReg      string           `json:"municipal_registration,omitempty"`
	ResponsiblePerson string           `json:"responsible_person"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
	PostalCode        string           `json:"postal_code"`
	Street            string           `json:"street"`
	Number            string           `json:"number"`
	Complement        string           `json:"complement,omitempty"`
	District          string           `json:"district"`
	City              string           `json:"city"`
	State             string           `json:"state"`
	LogoURL           string           `json:"logo_url,omitempty"`
	License           *LicenseResponse `json:"license,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
