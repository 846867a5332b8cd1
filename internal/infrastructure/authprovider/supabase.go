package authprovider

import (
	"context"
	"fmt"
	"strings"

	supa "github.com/nedpals/supabase-go"

	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

var _ ports.Authenticator = (*SupabaseAuthenticator)(nil)

// signIner subconjunto de supabase Auth usado aquí.
type signIner interface {
	SignIn(ctx context.Context, credentials supa.UserCredentials) (*supa.AuthenticatedDetails, error)
}

// SupabaseAuthenticator valida contra Supabase Auth. El rol sale de la lista de emails admin;
// el resto son operadores.
type SupabaseAuthenticator struct {
	auth   signIner
	admins map[string]bool
}

// NewSupabaseAuthenticator construye el autenticador con URL y anon key del proyecto.
func NewSupabaseAuthenticator(url, anonKey string, adminEmails []string) (*SupabaseAuthenticator, error) {
	client := supa.CreateClient(url, anonKey)
	if client == nil {
		return nil, fmt.Errorf("authprovider: no se pudo crear el cliente supabase")
	}
	return newSupabaseAuthenticator(client.Auth, adminEmails), nil
}

func newSupabaseAuthenticator(auth signIner, adminEmails []string) *SupabaseAuthenticator {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &SupabaseAuthenticator{auth: auth, admins: admins}
}

// Authenticate inicia sesión con email y password.
func (s *SupabaseAuthenticator) Authenticate(ctx context.Context, email, password string) (*entity.Operator, error) {
	details, err := s.auth.SignIn(ctx, supa.UserCredentials{Email: email, Password: password})
	if err != nil {
		// Supabase responde 400 invalid_grant ante credenciales erróneas.
		if strings.Contains(strings.ToLower(err.Error()), "invalid") {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("authprovider: supabase sign in: %w", err)
	}
	if details == nil {
		return nil, domain.ErrUnauthorized
	}
	u := details.User
	role := entity.RoleOperator
	if s.admins[strings.ToLower(u.Email)] {
		role = entity.RoleAdmin
	}
	name, _ := u.UserMetadata["name"].(string)
	return &entity.Operator{ID: u.ID, Email: u.Email, Name: name, Role: role}, nil
}
