package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ldtnet/pdv-api/internal/application/dto"
	"github.com/ldtnet/pdv-api/internal/application/licensing"
	"github.com/ldtnet/pdv-api/internal/application/usecase"
	"github.com/ldtnet/pdv-api/internal/domain/entity"
)

// OnboardingHandler expone el asistente de registro y activación (público, por sesión).
type OnboardingHandler struct {
	uc *licensing.WizardUseCase
}

// NewOnboardingHandler construye el handler.
func NewOnboardingHandler(uc *licensing.WizardUseCase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

func toOnboardingResponse(r *licensing.Result) dto.OnboardingResponse {
	return dto.OnboardingResponse{
		SessionID:     r.SessionID,
		Step:          int(r.State.Step),
		StepName:      r.State.Step.String(),
		State:         r.State,
		Warning:       r.Warning,
		PaymentStatus: r.PaymentStatus,
	}
}

func (h *OnboardingHandler) respond(c *fiber.Ctx, status int, r *licensing.Result, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(status).JSON(toOnboardingResponse(r))
}

// Start godoc
// @Summary      Iniciar asistente de activación
// @Description  Abre una sesión nueva. Con el último CNPJ guardado retoma el registro o confirma la licencia activa.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartOnboardingRequest  false  "Último CNPJ guardado"
// @Success      201   {object}  dto.OnboardingResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/onboarding [post]
func (h *OnboardingHandler) Start(c *fiber.Ctx) error {
	var in dto.StartOnboardingRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	out, err := h.uc.Start(c.UserContext(), in.TaxID)
	return h.respond(c, fiber.StatusCreated, out, err)
}

// Get godoc
// @Summary      Estado del asistente
// @Tags         onboarding
// @Produce      json
// @Param        sid  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.OnboardingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid} [get]
func (h *OnboardingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("sid"))
	return h.respond(c, fiber.StatusOK, out, err)
}

// EditCompany godoc
// @Summary      Editar datos de la empresa (paso 1)
// @Description  Al completar los 14 dígitos del CNPJ consulta BrasilAPI y completa el formulario.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        sid   path  string                  true  "ID de sesión"
// @Param        body  body  dto.CompanyFormRequest  true  "Formulario de empresa"
// @Success      200   {object}  dto.OnboardingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid}/company [put]
func (h *OnboardingHandler) EditCompany(c *fiber.Ctx) error {
	var in dto.CompanyFormRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.EditCompany(c.UserContext(), c.Params("sid"), in.ToForm())
	return h.respond(c, fiber.StatusOK, out, err)
}

// SubmitCompany godoc
// @Summary      Confirmar empresa y avanzar al paso 2
// @Tags         onboarding
// @Produce      json
// @Param        sid  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.OnboardingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid}/company/submit [post]
func (h *OnboardingHandler) SubmitCompany(c *fiber.Ctx) error {
	out, err := h.uc.SubmitCompany(c.UserContext(), c.Params("sid"))
	return h.respond(c, fiber.StatusOK, out, err)
}

// EditContact godoc
// @Summary      Editar contacto (paso 2)
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        sid   path  string                  true  "ID de sesión"
// @Param        body  body  dto.ContactFormRequest  true  "Formulario de contacto"
// @Success      200   {object}  dto.OnboardingResponse
// @Router       /api/onboarding/{sid}/contact [put]
func (h *OnboardingHandler) EditContact(c *fiber.Ctx) error {
	var in dto.ContactFormRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.EditContact(c.UserContext(), c.Params("sid"), in.ToForm())
	return h.respond(c, fiber.StatusOK, out, err)
}

// UploadLogo godoc
// @Summary      Subir logo de la empresa
// @Tags         onboarding
// @Accept       multipart/form-data
// @Produce      json
// @Param        sid   path      string  true  "ID de sesión"
// @Param        logo  formData  file    true  "Imagen PNG/JPEG hasta 2 MB"
// @Success      200   {object}  dto.OnboardingResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid}/logo [post]
func (h *OnboardingHandler) UploadLogo(c *fiber.Ctx) error {
	fh, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo logo requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()
	out, err := h.uc.UploadLogo(c.UserContext(), c.Params("sid"), licensing.LogoUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	return h.respond(c, fiber.StatusOK, out, err)
}

// ConfirmContact godoc
// @Summary      Guardar empresa y avanzar a la selección de plan
// @Tags         onboarding
// @Produce      json
// @Param        sid  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.OnboardingResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid}/contact/confirm [post]
func (h *OnboardingHandler) ConfirmContact(c *fiber.Ctx) error {
	out, err := h.uc.ConfirmContact(c.UserContext(), c.Params("sid"))
	return h.respond(c, fiber.StatusOK, out, err)
}

// SelectPlan godoc
// @Summary      Elegir plan (paso 3)
// @Description  trial activa al instante; monthly y annual generan un cobro Pix.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        sid   path  string                 true  "ID de sesión"
// @Param        body  body  dto.SelectPlanRequest  true  "Plan"
// @Success      200   {object}  dto.OnboardingResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid}/plan [post]
func (h *OnboardingHandler) SelectPlan(c *fiber.Ctx) error {
	var in dto.SelectPlanRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SelectPlan(c.UserContext(), c.Params("sid"), entity.PlanType(in.Plan))
	return h.respond(c, fiber.StatusOK, out, err)
}

// CheckPayment godoc
// @Summary      Consultar el pago del cobro Pix
// @Tags         onboarding
// @Produce      json
// @Param        sid  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.OnboardingResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid}/payment/check [post]
func (h *OnboardingHandler) CheckPayment(c *fiber.Ctx) error {
	out, err := h.uc.CheckPayment(c.UserContext(), c.Params("sid"))
	return h.respond(c, fiber.StatusOK, out, err)
}

// Back godoc
// @Summary      Volver al paso anterior
// @Tags         onboarding
// @Produce      json
// @Param        sid  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.OnboardingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/onboarding/{sid}/back [post]
func (h *OnboardingHandler) Back(c *fiber.Ctx) error {
	out, err := h.uc.Back(c.UserContext(), c.Params("sid"))
	return h.respond(c, fiber.StatusOK, out, err)
}

// VerifyLicense godoc
// @Summary      Verificar chave de ativação
// @Tags         licenses
// @Produce      json
// @Param        key  path  string  true  "Chave de ativação"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/licenses/{key} [get]
func (h *OnboardingHandler) VerifyLicense(c *fiber.Ctx) error {
	l, err := h.uc.VerifyKey(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToLicenseResponse(l))
}
