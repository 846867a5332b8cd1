package entity

import "time"

// Company representa la empresa que licencia el PDV (registro brasileño, clave natural CNPJ).
// Se crea en el primer guardado y se actualiza en el lugar por TaxID; el asistente nunca la borra.
type Company struct {
	ID                string
	TaxID             string // CNPJ normalizado, 14 dígitos
	LegalName         string // razão social
	TradeName         string // nome fantasia
	Classification    string // descripción CNAE
	StateRegistration string // inscrição estadual
	MunicipalReg      string // inscrição municipal
	ResponsiblePerson string
	Email             string
	Phone             string
	PostalCode        string // CEP, solo dígitos
	Street            string
	Number            string
	Complement        string
	District          string
	City              string
	State             string // UF
	LogoURL           string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayName nombre para cupons y pantallas: fantasía si existe, si no la razón social.
func (c *Company) DisplayName() string {
	if c.TradeName != "" {
		return c.TradeName
	}
	return c.LegalName
}
