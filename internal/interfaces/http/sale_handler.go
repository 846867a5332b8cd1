package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/application/usecase"
)

// SaleHandler carrinho, cierre de venta, ventas y cupom.
type SaleHandler struct {
	carts   *sales.CartUseCase
	sales   *sales.SaleUseCase
	reports *usecase.ReportUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(carts *sales.CartUseCase, saleUC *sales.SaleUseCase, reports *usecase.ReportUseCase) *SaleHandler {
	return &SaleHandler{carts: carts, sales: saleUC, reports: reports}
}

// ── Carrinho ─────────────────────────────────────────────────────────────────

// GetCart godoc
// @Summary      Carrinho del operador
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *SaleHandler) GetCart(c *fiber.Ctx) error {
	cart, err := h.carts.Get(c.UserContext(), GetOperator(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToCartResponse(cart))
}

// AddItem godoc
// @Summary      Agregar producto al carrinho
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "product_id o code"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *SaleHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	cart, err := h.carts.Add(c.UserContext(), GetOperator(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToCartResponse(cart))
}

// RemoveItem godoc
// @Summary      Quitar una línea del carrinho
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        index  path  int  true  "Índice de la línea"
// @Success      200    {object}  dto.CartResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/cart/items/{index} [delete]
func (h *SaleHandler) RemoveItem(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "index debe ser numérico"})
	}
	cart, err := h.carts.Remove(c.UserContext(), GetOperator(c), index)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToCartResponse(cart))
}

// ClearCart godoc
// @Summary      Vaciar el carrinho
// @Tags         cart
// @Security     Bearer
// @Success      204
// @Router       /api/cart [delete]
func (h *SaleHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.carts.Clear(c.UserContext(), GetOperator(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// Checkout godoc
// @Summary      Finalizar venta
// @Description  Registra la venta del carrinho, descuenta stock y devuelve el cupom.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Forma de pago"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.sales.Checkout(c.UserContext(), GetOperator(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (1-200, por defecto 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit/offset inválidos"})
	}
	page.DefaultPage()
	if err := dto.Validate(page); err != nil {
		return writeError(c, err)
	}
	out, err := h.sales.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.sales.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Resumen de ventas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        since  query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Success      200    {object}  dto.SalesReportResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *SaleHandler) Report(c *fiber.Ctx) error {
	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := parseSince(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "since debe ser RFC3339 o AAAA-MM-DD"})
		}
		since = &t
	}
	out, err := h.reports.SalesReport(c.UserContext(), since)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, raw, time.Local)
}

// ── Cupom ────────────────────────────────────────────────────────────────────

// ReceiptPDF godoc
// @Summary      Cupom en PDF
// @Tags         receipts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt.pdf [get]
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	b, name, err := h.sales.ReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(name)
	return c.Send(b)
}

// ReceiptXML godoc
// @Summary      Cupom exportado a XML
// @Tags         receipts
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt.xml [get]
func (h *SaleHandler) ReceiptXML(c *fiber.Ctx) error {
	b, name, err := h.sales.ReceiptXML(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Attachment(name)
	return c.Send(b)
}

// ReceiptPrint godoc
// @Summary      Cupom para impresora térmica (CP850)
// @Tags         receipts
// @Security     Bearer
// @Produce      text/plain
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt/print [get]
func (h *SaleHandler) ReceiptPrint(c *fiber.Ctx) error {
	b, err := h.sales.ReceiptForPrinter(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=IBM850")
	return c.Send(b)
}

// ReceiptWhatsApp godoc
// @Summary      Enlace para enviar el cupom por WhatsApp
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la venta"
// @Param        body  body  dto.ShareReceiptRequest  true  "Teléfono"
// @Success      200   {object}  dto.ShareReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt/whatsapp [post]
func (h *SaleHandler) ReceiptWhatsApp(c *fiber.Ctx) error {
	var in dto.ShareReceiptRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	link, err := h.sales.ReceiptWhatsApp(c.UserContext(), c.Params("id"), in.Phone)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ShareReceiptResponse{Link: link})
}
