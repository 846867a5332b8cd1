package http

import (
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/domain"
)

// errorStatus correspondencia error de dominio → estado HTTP y código. El orden importa:
// gana la primera coincidencia.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{errInvalidBody, fiber.StatusBadRequest, "INVALID_BODY"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnknownPlan, fiber.StatusBadRequest, "UNKNOWN_PLAN"},
	{domain.ErrInvalidPayment, fiber.StatusBadRequest, "INVALID_PAYMENT"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrEmptyCart, fiber.StatusUnprocessableEntity, "EMPTY_CART"},
	{domain.ErrInsufficientPayment, fiber.StatusUnprocessableEntity, "INSUFFICIENT_PAYMENT"},
	{domain.ErrPaymentProvider, fiber.StatusBadGateway, "PAYMENT_PROVIDER"},
	{domain.ErrStore, fiber.StatusBadGateway, "STORE_UNAVAILABLE"},
	{domain.ErrNotConfigured, fiber.StatusServiceUnavailable, "NOT_CONFIGURED"},
}

// writeError responde con dto.ErrorResponse. Los errores no mapeados van a Sentry como 500.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	sentry.CaptureException(err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

var errInvalidBody = fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)

// parseBody decodifica y valida el cuerpo JSON; el error se responde con writeError.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return dto.Validate(out)
}
