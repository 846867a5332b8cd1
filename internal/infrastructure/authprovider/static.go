// Package authprovider valida credenciales de operadores del PDV.
package authprovider

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

var _ ports.Authenticator = (*StaticAuthenticator)(nil)

type account struct {
	hash []byte
	op   entity.Operator
}

// StaticAuthenticator cuentas definidas en configuración con password en bcrypt.
type StaticAuthenticator struct {
	accounts map[string]account
}

// NewStaticAuthenticator parsea "email:bcrypt_hash:rol:nombre" separados por ';'.
// El nombre es opcional. Los hashes bcrypt contienen '$' pero no ':'.
func NewStaticAuthenticator(accounts string) (*StaticAuthenticator, error) {
	a := &StaticAuthenticator{accounts: map[string]account{}}
	for _, entry := range strings.Split(accounts, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 4)
		if len(parts) < 3 {
			return nil, fmt.Errorf("authprovider: cuenta inválida %q", entry)
		}
		email := strings.ToLower(strings.TrimSpace(parts[0]))
		role := strings.TrimSpace(parts[2])
		if !entity.ValidRole(role) {
			return nil, fmt.Errorf("authprovider: rol %q inválido para %s", role, email)
		}
		name := ""
		if len(parts) == 4 {
			name = strings.TrimSpace(parts[3])
		}
		a.accounts[email] = account{
			hash: []byte(strings.TrimSpace(parts[1])),
			op:   entity.Operator{ID: email, Email: email, Name: name, Role: role},
		}
	}
	return a, nil
}

// Authenticate compara el password con el hash. Email desconocido o password incorrecto: domain.ErrUnauthorized.
func (a *StaticAuthenticator) Authenticate(_ context.Context, email, password string) (*entity.Operator, error) {
	acc, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	op := acc.op
	return &op, nil
}
