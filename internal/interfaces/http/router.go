package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ldtnet/pdv-api/internal/application/auth"
	"github.com/ldtnet/pdv-api/internal/application/licensing"
	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WizardUC   *licensing.WizardUseCase
	CompanyUC  *usecase.CompanyUseCase
	ProductUC  *usecase.ProductUseCase
	CustomerUC *usecase.CustomerUseCase
	ReportUC   *usecase.ReportUseCase
	CartUC     *sales.CartUseCase
	SaleUC     *sales.SaleUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string

	// Límite por IP de las rutas públicas; RateLimit <= 0 lo desactiva.
	RateLimit float64
	RateBurst int
	// RequireLicense exige X-License-Key activa en el caixa.
	RequireLicense bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	public := RateLimitByIP(deps.RateLimit, deps.RateBurst)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", public, authHandler.Login)

	// Asistente de activación y licencias (público, limitado por IP)
	onboardingHandler := NewOnboardingHandler(deps.WizardUC)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Get("/plans", companyHandler.Plans)
	api.Get("/licenses/:key", public, onboardingHandler.VerifyLicense)

	wizard := api.Group("/onboarding", public)
	wizard.Post("/", onboardingHandler.Start)
	wizard.Get("/:sid", onboardingHandler.Get)
	wizard.Put("/:sid/company", onboardingHandler.EditCompany)
	wizard.Post("/:sid/company/submit", onboardingHandler.SubmitCompany)
	wizard.Put("/:sid/contact", onboardingHandler.EditContact)
	wizard.Post("/:sid/logo", onboardingHandler.UploadLogo)
	wizard.Post("/:sid/contact/confirm", onboardingHandler.ConfirmContact)
	wizard.Post("/:sid/plan", onboardingHandler.SelectPlan)
	wizard.Post("/:sid/payment/check", onboardingHandler.CheckPayment)
	wizard.Post("/:sid/back", onboardingHandler.Back)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	if deps.RequireLicense {
		protected.Use(RequireLicense(deps.WizardUC))
	}
	anyRole := RequireRole(RoleAdmin, RoleOperator)
	adminOnly := RequireRole(RoleAdmin)

	companies := protected.Group("/companies")
	companies.Get("/:cnpj", adminOnly, companyHandler.GetByTaxID)

	// Products: lectura para cualquier operador, escritura solo admin
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/barcode/:ean", anyRole, productHandler.LookupBarcode)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	customers := protected.Group("/customers", anyRole)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	saleHandler := NewSaleHandler(deps.CartUC, deps.SaleUC, deps.ReportUC)

	cart := protected.Group("/cart", anyRole)
	cart.Get("/", saleHandler.GetCart)
	cart.Post("/items", saleHandler.AddItem)
	cart.Delete("/items/:index", saleHandler.RemoveItem)
	cart.Delete("/", saleHandler.ClearCart)

	salesGroup := protected.Group("/sales")
	salesGroup.Post("/checkout", anyRole, saleHandler.Checkout)
	salesGroup.Get("/", adminOnly, saleHandler.List)
	salesGroup.Delete("/:id", adminOnly, saleHandler.Delete)
	salesGroup.Get("/:id/receipt.pdf", anyRole, saleHandler.ReceiptPDF)
	salesGroup.Get("/:id/receipt.xml", anyRole, saleHandler.ReceiptXML)
	salesGroup.Get("/:id/receipt/print", anyRole, saleHandler.ReceiptPrint)
	salesGroup.Post("/:id/receipt/whatsapp", anyRole, saleHandler.ReceiptWhatsApp)

	protected.Get("/reports/sales", adminOnly, saleHandler.Report)
}
