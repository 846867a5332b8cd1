package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/domain"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// HeaderLicenseKey header con la chave de ativação del terminal.
const HeaderLicenseKey = "X-License-Key"

// licenseChecker contrato mínimo para verificar la clave; lo implementa *licensing.WizardUseCase.
type licenseChecker interface {
	VerifyKey(ctx context.Context, key string) (*entity.License, error)
}

// RequireLicense bloquea el caixa si el terminal no presenta una licencia activa.
//
// Respuestas:
//   - 402 LICENSE_REQUIRED si falta el header.
//   - 403 LICENSE_INACTIVE si la clave no existe o venció.
//   - 502 LICENSE_CHECK_FAILED si el almacén no responde.
func RequireLicense(checker licenseChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderLicenseKey)
		if key == "" {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code:    "LICENSE_REQUIRED",
				Message: "header " + HeaderLicenseKey + " requerido",
			})
		}
		l, err := checker.VerifyKey(c.UserContext(), key)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Code:    "LICENSE_CHECK_FAILED",
				Message: "no se pudo verificar la licencia, intente más tarde",
			})
		}
		if l == nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "LICENSE_INACTIVE",
				Message: "licencia inexistente o vencida",
			})
		}
		return c.Next()
	}
}
