package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanType tipo de plan de licencia (conjunto cerrado).
type PlanType string

const (
	PlanTrial   PlanType = "trial"
	PlanMonthly PlanType = "monthly"
	PlanAnnual  PlanType = "annual"
)

// LicenseStatus estado de una licencia.
type LicenseStatus string

const (
	LicensePending LicenseStatus = "pending"
	LicenseActive  LicenseStatus = "active"
	LicenseExpired LicenseStatus = "expired"
)

// License licencia de uso del PDV. Pertenece a exactamente una Company.
// Para una empresa se considera vigente la licencia active más reciente por CreatedAt.
type License struct {
	ID            string
	CompanyID     string
	Plan          PlanType
	Value         decimal.Decimal
	ActivationKey string // única global
	Status        LicenseStatus
	ActivatedAt   *time.Time
	ExpiresAt     time.Time
	ChargeID      *string // referencia del cobro externo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpiredAt informa si la licencia está vencida en el instante now.
func (l *License) IsExpiredAt(now time.Time) bool {
	return l.ExpiresAt.Before(now)
}
