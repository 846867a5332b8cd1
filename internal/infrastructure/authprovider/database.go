package authprovider

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

var _ ports.Authenticator = (*DatabaseAuthenticator)(nil)

// DatabaseAuthenticator cuentas de la tabla operadores con password en bcrypt.
type DatabaseAuthenticator struct {
	repo repository.OperatorRepository
}

// NewDatabaseAuthenticator construye el autenticador.
func NewDatabaseAuthenticator(repo repository.OperatorRepository) *DatabaseAuthenticator {
	return &DatabaseAuthenticator{repo: repo}
}

// Authenticate valida email y password. Una cuenta desactivada devuelve domain.ErrForbidden.
func (a *DatabaseAuthenticator) Authenticate(ctx context.Context, email, password string) (*entity.Operator, error) {
	acc, err := a.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("authprovider: %w", err)
	}
	if acc == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !acc.Active {
		return nil, fmt.Errorf("%w: cuenta desactivada", domain.ErrForbidden)
	}
	op := acc.Operator
	return &op, nil
}
