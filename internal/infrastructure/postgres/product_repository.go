package postgres

import (
	"context"
	"fmt"

	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, codigo, nome, preco, preco_custo, quantidade_estoque, fornecedor, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Price, &p.CostPrice, &p.StockQuantity, &p.Supplier, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto. Código repetido devuelve domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO produtos (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, p.Price, p.CostPrice, p.StockQuantity, p.Supplier, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM produtos WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por código de barras o interno.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM produtos WHERE codigo = $1`, code))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// List catálogo completo ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM produtos ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza los datos editables.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE produtos
		SET codigo = $2, nome = $3, preco = $4, preco_custo = $5, quantidade_estoque = $6, fornecedor = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Code, p.Name, p.Price, p.CostPrice, p.StockQuantity, p.Supplier, p.UpdatedAt)
	if err != nil {
		return wrapWriteErr("update product", err)
	}
	return expectAffected(tag)
}

// Delete elimina un producto. Las ventas guardan la foto de sus ítems y no se ven afectadas.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectAffected(tag)
}

// DecrementStock descuenta una unidad si el producto controla stock. Sin stock controlado no hace nada.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string) error {
	query := `
		UPDATE produtos
		SET quantidade_estoque = quantidade_estoque - 1, updated_at = NOW()
		WHERE id = $1 AND quantidade_estoque > 0`
	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}
