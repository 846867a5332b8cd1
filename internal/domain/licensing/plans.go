// Package licensing reúne las reglas puras del licenciamiento del PDV:
// tabla de planes, cálculo de vencimiento y generación de claves de activación.
package licensing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// DefaultTrialDays duración del plan de prueba.
const DefaultTrialDays = 15

// Plan entrada de la tabla de planes.
type Plan struct {
	Type        entity.PlanType
	Price       decimal.Decimal
	Description string
}

// IsTrial el plan de prueba se activa al instante y no genera cobro.
func (p Plan) IsTrial() bool {
	return p.Type == entity.PlanTrial
}

// Catalog tabla única de planes y precios.
type Catalog struct {
	plans     map[entity.PlanType]Plan
	trialDays int
}

// NewCatalog construye la tabla con los precios de los planes pagos.
func NewCatalog(monthly, annual decimal.Decimal, trialDays int) *Catalog {
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	return &Catalog{
		trialDays: trialDays,
		plans: map[entity.PlanType]Plan{
			entity.PlanTrial:   {Type: entity.PlanTrial, Price: decimal.Zero, Description: "Licença Demo PDV LDT NET"},
			entity.PlanMonthly: {Type: entity.PlanMonthly, Price: monthly, Description: "Licença Mensal PDV LDT NET"},
			entity.PlanAnnual:  {Type: entity.PlanAnnual, Price: annual, Description: "Licença Anual PDV LDT NET"},
		},
	}
}

// DefaultCatalog precios vigentes: mensal 49,90 y anual 499,00.
func DefaultCatalog() *Catalog {
	return NewCatalog(decimal.RequireFromString("49.90"), decimal.RequireFromString("499.00"), DefaultTrialDays)
}

// Lookup devuelve el plan o domain.ErrUnknownPlan.
func (c *Catalog) Lookup(t entity.PlanType) (Plan, error) {
	p, ok := c.plans[t]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", domain.ErrUnknownPlan, t)
	}
	return p, nil
}

// All devuelve los planes en orden de presentación.
func (c *Catalog) All() []Plan {
	return []Plan{c.plans[entity.PlanTrial], c.plans[entity.PlanMonthly], c.plans[entity.PlanAnnual]}
}

// TrialDays duración configurada del plan de prueba.
func (c *Catalog) TrialDays() int {
	return c.trialDays
}

// ExpiresAt calcula el vencimiento a partir de from: trial +N días, monthly +1 mes, annual +1 año.
func (c *Catalog) ExpiresAt(t entity.PlanType, from time.Time) (time.Time, error) {
	switch t {
	case entity.PlanTrial:
		return from.AddDate(0, 0, c.trialDays), nil
	case entity.PlanMonthly:
		return from.AddDate(0, 1, 0), nil
	case entity.PlanAnnual:
		return from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnknownPlan, t)
}
