package entity

import "time"

// Roles válidos para operadores del PDV.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operador"
)

// Operator identidad autenticada devuelta por el proveedor de autenticación.
type Operator struct {
	ID    string
	Email string
	Name  string
	Role  string // admin, operador
}

// IsAdmin informa si el operador tiene rol administrativo.
func (o *Operator) IsAdmin() bool {
	return o.Role == RoleAdmin
}

// ValidRole informa si role es admin u operador.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}

// OperatorAccount cuenta de operador persistida en la base (proveedor "database").
type OperatorAccount struct {
	Operator
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}
