package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/ldtnet/pdv-api/internal/application/auth"
	"github.com/ldtnet/pdv-api/internal/application/licensing"
	"github.com/ldtnet/pdv-api/internal/application/ports"
	"github.com/ldtnet/pdv-api/internal/application/sales"
	"github.com/ldtnet/pdv-api/internal/application/usecase"
	domlicensing "github.com/ldtnet/pdv-api/internal/domain/licensing"
	"github.com/ldtnet/pdv-api/internal/domain/receipt"
	"github.com/ldtnet/pdv-api/internal/domain/repository"
	"github.com/ldtnet/pdv-api/internal/infrastructure/authprovider"
	"github.com/ldtnet/pdv-api/internal/infrastructure/brasilapi"
	"github.com/ldtnet/pdv-api/internal/infrastructure/cora"
	"github.com/ldtnet/pdv-api/internal/infrastructure/fiscalxml"
	"github.com/ldtnet/pdv-api/internal/infrastructure/gtin"
	"github.com/ldtnet/pdv-api/internal/infrastructure/objectstore"
	infrapdf "github.com/ldtnet/pdv-api/internal/infrastructure/pdf"
	"github.com/ldtnet/pdv-api/internal/infrastructure/postgres"
	"github.com/ldtnet/pdv-api/internal/infrastructure/session"
	httpRouter "github.com/ldtnet/pdv-api/internal/interfaces/http"
	"github.com/ldtnet/pdv-api/pkg/config"
	"github.com/ldtnet/pdv-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.App.Env,
			Release:     cfg.App.Name,
		}); err != nil {
			log.Warn().Err(err).Msg("sentry deshabilitado")
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	licenseRepo := postgres.NewLicenseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	sessions, closeSessions, err := session.New(session.Options{
		Driver:        session.Driver(cfg.Session.Driver),
		TTL:           cfg.Session.TTL,
		RedisAddr:     cfg.Session.RedisAddr,
		RedisPassword: cfg.Session.RedisPassword,
		RedisDB:       cfg.Session.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de sesiones")
	}
	defer func() { _ = closeSessions() }()

	// Logos: opcional; sin almacenamiento el paso de contacto responde 503 al subir.
	var storage ports.ObjectStorage
	if cfg.Storage.Enabled() {
		store, err := objectstore.NewMinioStore(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de objetos")
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Warn().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("no se pudo verificar el bucket")
		}
		storage = store
	}

	authenticator, err := newAuthenticator(cfg.Auth, postgres.NewOperatorRepository(pool))
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Auth.Provider).Msg("proveedor de autenticación")
	}

	catalog := domlicensing.NewCatalog(
		priceOr(cfg.Plans.MonthlyPrice, "49.90"),
		priceOr(cfg.Plans.AnnualPrice, "499.00"),
		cfg.Plans.TrialDays,
	)
	licenseSvc := licensing.NewLicenseService(companyRepo, licenseRepo, catalog, log)
	wizardUC := licensing.NewWizardUseCase(
		licenseSvc,
		brasilapi.NewClient(cfg.BrasilAPI, log),
		cora.NewClient(cfg.Cora, log),
		storage,
		sessions,
		cfg.Cora.PaidStatuses,
		log,
	)

	cartUC := sales.NewCartUseCase(sessions, productRepo)
	saleUC := sales.NewSaleUseCase(
		cartUC, txRunner, saleRepo, customerRepo,
		issuerFromConfig(cfg.Receipt),
		infrapdf.NewMarotoPDFGenerator(),
		fiscalxml.NewCFeExporter(),
		log,
	)
	authUC := auth.NewAuthUseCase(authenticator, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    licensing.MaxLogoSize + 64<<10,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderLicenseKey,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PDV LDT NET API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WizardUC:       wizardUC,
		CompanyUC:      usecase.NewCompanyUseCase(licenseSvc),
		ProductUC:      usecase.NewProductUseCase(productRepo, gtin.NewClient(cfg.GTIN, log)),
		CustomerUC:     usecase.NewCustomerUseCase(customerRepo),
		ReportUC:       usecase.NewReportUseCase(saleRepo),
		CartUC:         cartUC,
		SaleUC:         saleUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
		RateLimit:      cfg.HTTP.RateLimit,
		RateBurst:      cfg.HTTP.RateBurst,
		RequireLicense: cfg.HTTP.RequireLicense,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func newAuthenticator(cfg config.AuthConfig, operators repository.OperatorRepository) (ports.Authenticator, error) {
	switch cfg.Provider {
	case "supabase":
		return authprovider.NewSupabaseAuthenticator(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.AdminEmails)
	case "database":
		return authprovider.NewDatabaseAuthenticator(operators), nil
	default:
		return authprovider.NewStaticAuthenticator(cfg.StaticAccounts)
	}
}

func priceOr(raw, def string) decimal.Decimal {
	if p, err := decimal.NewFromString(raw); err == nil && p.IsPositive() {
		return p
	}
	return decimal.RequireFromString(def)
}

// issuerFromConfig cabecera del cupom; sin razón social configurada usa el emisor por defecto.
func issuerFromConfig(c config.ReceiptConfig) receipt.Issuer {
	if c.CompanyName == "" {
		return receipt.DefaultIssuer()
	}
	return receipt.Issuer{
		Name:    c.CompanyName,
		Address: c.Address,
		City:    c.City,
		UF:      c.UF,
		CEP:     c.CEP,
		CNPJ:    c.CNPJ,
		IE:      c.IE,
		IM:      c.IM,
		CCF:     c.CCF,
		CCD:     c.CCD,
		PixKey:  c.PixKey,
	}
}
