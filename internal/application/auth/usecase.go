package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de operadores. Las credenciales las valida el Authenticator
// configurado; aquí solo se emite el token con el rol.
type AuthUseCase struct {
	authenticator ports.Authenticator
	jwtCfg        JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(authenticator ports.Authenticator, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{authenticator: authenticator, jwtCfg: jwtCfg}
}

// Login valida email/password, genera JWT y retorna token + operador.
// Credenciales inválidas devuelven domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := uc.authenticator.Authenticate(ctx, strings.TrimSpace(strings.ToLower(in.Email)), in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if op == nil {
		return nil, domain.ErrUnauthorized
	}
	if op.Role != entity.RoleAdmin && op.Role != entity.RoleOperator {
		return nil, domain.ErrForbidden
	}
	name := op.Name
	if name == "" {
		name = op.Email
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, op.ID, name, op.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Operator: dto.OperatorResponse{
			ID:    op.ID,
			Email: op.Email,
			Name:  name,
			Role:  op.Role,
		},
	}, nil
}
