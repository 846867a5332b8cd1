package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository. Los ítems se guardan como JSONB con el precio congelado.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, numero, total, forma_pagamento, valor_pago, troco, itens, cliente_id, operador, created_at`

func scanSale(row interface{ Scan(...any) error }) (*entity.Sale, error) {
	var s entity.Sale
	var method string
	var items []byte
	err := row.Scan(&s.ID, &s.Number, &s.Total, &method, &s.AmountPaid, &s.Change, &items, &s.CustomerID, &s.Operator, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.PaymentMethod = entity.PaymentMethod(method)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &s.Items); err != nil {
			return nil, fmt.Errorf("decode itens: %w", err)
		}
	}
	return &s, nil
}

// Create persiste la venta; numero sale de la secuencia vendas_numero_seq.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("encode itens: %w", err)
	}
	query := `
		INSERT INTO vendas (id, numero, total, forma_pagamento, valor_pago, troco, itens, cliente_id, operador, created_at)
		VALUES ($1, nextval('vendas_numero_seq'), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING numero`
	err = r.q.QueryRow(ctx, query,
		s.ID, s.Total, string(s.PaymentMethod), s.AmountPaid, s.Change, items, s.CustomerID, s.Operator, s.CreatedAt,
	).Scan(&s.Number)
	if err != nil {
		return wrapWriteErr("insert sale", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM vendas WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List ventas más recientes primero.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	return r.list(ctx, "list sales",
		`SELECT `+saleColumns+` FROM vendas ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListSince ventas desde since en orden cronológico.
func (r *SaleRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.Sale, error) {
	return r.list(ctx, "list sales since",
		`SELECT `+saleColumns+` FROM vendas WHERE created_at >= $1 ORDER BY created_at`, since)
}

func (r *SaleRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina una venta (anulación administrativa). No repone stock.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM vendas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return expectAffected(tag)
}
