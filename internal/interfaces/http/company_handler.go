package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ldtnet/pdv-api/internal/application/usecase"
)

// CompanyHandler consulta de empresas licenciadas y tabla de planes.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// GetByTaxID godoc
// @Summary      Obtener empresa por CNPJ
// @Description  Incluye la licencia activa, si existe.
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        cnpj  path  string  true  "CNPJ con o sin máscara"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{cnpj} [get]
func (h *CompanyHandler) GetByTaxID(c *fiber.Ctx) error {
	out, err := h.uc.GetByTaxID(c.UserContext(), c.Params("cnpj"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Plans godoc
// @Summary      Tabla de planes
// @Tags         licenses
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/plans [get]
func (h *CompanyHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(h.uc.Plans())
}
