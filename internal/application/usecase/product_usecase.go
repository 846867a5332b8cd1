package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
	"github.com/ldtnet/pdv-api/pkg/cnpj"
)

// minBarcodeDigits largo mínimo de un EAN para consultar el catálogo GTIN.
const minBarcodeDigits = 8

// ProductUseCase casos de uso CRUD del catálogo y consulta de códigos de barras.
type ProductUseCase struct {
	repo     repository.ProductRepository
	barcodes ports.BarcodeLookup
}

// NewProductUseCase construye el caso de uso. barcodes puede ser nil si no hay catálogo GTIN.
func NewProductUseCase(repo repository.ProductRepository, barcodes ports.BarcodeLookup) *ProductUseCase {
	return &ProductUseCase{repo: repo, barcodes: barcodes}
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code != "" {
		existing, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if in.Price.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		CostPrice:     in.CostPrice,
		StockQuantity: in.StockQuantity,
		Supplier:      strings.TrimSpace(in.Supplier),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// List devuelve el catálogo ordenado por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update aplica los campos informados; (nil, nil) si el producto no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code != "" && code != product.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != product.ID {
				return nil, domain.ErrDuplicate
			}
		}
		product.Code = code
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.StockQuantity != nil {
		product.StockQuantity = *in.StockQuantity
	}
	if in.Supplier != nil {
		product.Supplier = strings.TrimSpace(*in.Supplier)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto. Las ventas guardan su foto y no se ven afectadas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// LookupBarcode consulta el catálogo GTIN para precargar el formulario de producto.
// Fallo blando: sin resultado devuelve Found=false con una advertencia.
func (uc *ProductUseCase) LookupBarcode(ctx context.Context, ean string) (*dto.BarcodeResponse, error) {
	code := cnpj.Digits(ean)
	if len(code) < minBarcodeDigits {
		return nil, domain.ErrInvalidInput
	}
	if uc.barcodes == nil {
		return &dto.BarcodeResponse{Code: code, Warning: "Consulta de código de barras não configurada."}, nil
	}
	info, err := uc.barcodes.LookupBarcode(ctx, code)
	if errors.Is(err, ports.ErrBarcodeNotFound) || (err == nil && info == nil) {
		return &dto.BarcodeResponse{Code: code, Warning: "Produto não encontrado. Preencha manualmente."}, nil
	}
	if err != nil {
		return &dto.BarcodeResponse{Code: code, Warning: "Erro ao consultar o código de barras."}, nil
	}
	return &dto.BarcodeResponse{Code: code, Name: info.Name, Brand: info.Brand, Found: true}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Price:         p.Price,
		CostPrice:     p.CostPrice,
		StockQuantity: p.StockQuantity,
		Supplier:      p.Supplier,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
