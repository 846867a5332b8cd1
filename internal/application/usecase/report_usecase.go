package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
)

// ReportUseCase reportes de ventas para el administrador.
type ReportUseCase struct {
	sales repository.SaleRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(sales repository.SaleRepository) *ReportUseCase {
	return &ReportUseCase{sales: sales}
}

// SalesReport resume las ventas desde since (nil = todas): cantidad, facturación,
// total por forma de pago y total por nombre de producto (suma de las fotos de precio).
func (uc *ReportUseCase) SalesReport(ctx context.Context, since *time.Time) (*dto.SalesReportResponse, error) {
	var from time.Time
	if since != nil {
		from = *since
	}
	list, err := uc.sales.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}
	return &dto.SalesReportResponse{
		Since:     since,
		SaleCount: len(list),
		Revenue:   sumTotals(list),
		ByMethod: lo.MapValues(
			lo.GroupBy(list, func(s *entity.Sale) string { return string(s.PaymentMethod) }),
			func(group []*entity.Sale, _ string) decimal.Decimal { return sumTotals(group) },
		),
		ByProduct: SalesByProduct(list),
	}, nil
}

// SalesByProduct agrupa los ítems vendidos por nombre, de mayor a menor total.
func SalesByProduct(list []*entity.Sale) []dto.ProductSalesResponse {
	items := lo.FlatMap(list, func(s *entity.Sale, _ int) []entity.SaleItem { return s.Items })
	groups := lo.GroupBy(items, func(it entity.SaleItem) string { return it.Name })

	out := lo.MapToSlice(groups, func(name string, group []entity.SaleItem) dto.ProductSalesResponse {
		total := lo.Reduce(group, func(acc decimal.Decimal, it entity.SaleItem, _ int) decimal.Decimal {
			return acc.Add(it.Price)
		}, decimal.Zero)
		return dto.ProductSalesResponse{Name: name, Quantity: len(group), Total: total}
	})
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sumTotals(list []*entity.Sale) decimal.Decimal {
	return lo.Reduce(list, func(acc decimal.Decimal, s *entity.Sale, _ int) decimal.Decimal {
		return acc.Add(s.Total)
	}, decimal.Zero)
}
