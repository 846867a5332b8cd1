package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorRepo)(nil)

// OperatorRepo cuentas de operadores sobre la tabla operadores.
type OperatorRepo struct {
	q Querier
}

// NewOperatorRepository construye el adaptador.
func NewOperatorRepository(q Querier) *OperatorRepo {
	return &OperatorRepo{q: q}
}

// Create persiste la cuenta. Email repetido devuelve domain.ErrDuplicate.
func (r *OperatorRepo) Create(ctx context.Context, acc *entity.OperatorAccount) error {
	query := `
		INSERT INTO operadores (id, email, senha_hash, nome, role, ativo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		acc.ID, strings.ToLower(acc.Email), acc.PasswordHash, acc.Name, acc.Role, acc.Active, acc.CreatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert operator", err)
	}
	return nil
}

// FindByEmail busca la cuenta por email.
func (r *OperatorRepo) FindByEmail(ctx context.Context, email string) (*entity.OperatorAccount, error) {
	query := `
		SELECT id, email, senha_hash, nome, role, ativo, created_at
		FROM operadores WHERE email = $1`
	var acc entity.OperatorAccount
	err := r.q.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&acc.ID, &acc.Email, &acc.PasswordHash, &acc.Name, &acc.Role, &acc.Active, &acc.CreatedAt,
	)
	if noRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get operator by email: %w", err)
	}
	return &acc, nil
}
