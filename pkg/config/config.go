package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Auth      AuthConfig
	BrasilAPI BrasilAPIConfig
	Cora      CoraConfig
	GTIN      GTINConfig
	Storage   StorageConfig
	Session   SessionConfig
	Plans     PlansConfig
	Receipt   ReceiptConfig
	Sentry    SentryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
	// Límite de peticiones por segundo y ráfaga por IP en las rutas públicas del asistente.
	RateLimit float64
	RateBurst int

	// RequireLicense exige el header X-License-Key con una licencia activa en las rutas del caixa.
	RequireLicense bool
	// Orígenes del cliente web del PDV, separados por coma.
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig proveedor de autenticación de operadores.
// Provider "static" usa StaticAccounts ("email:bcrypt_hash:role:nombre" separados por ';');
// "supabase" usa Supabase Auth y asigna rol admin a los emails de AdminEmails;
// "database" usa la tabla operadores (alta con cmd/seed_operator).
type AuthConfig struct {
	Provider        string
	StaticAccounts  string
	AdminEmails     []string
	SupabaseURL     string
	SupabaseAnonKey string
}

// BrasilAPIConfig consulta pública de CNPJ.
type BrasilAPIConfig struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
}

// CoraConfig proveedor de cobranças Pix (Cora).
type CoraConfig struct {
	Environment   string // sandbox | production
	APIKey        string
	PixKey        string
	ProductionURL string
	SandboxURL    string
	// Estados que indican cobro liquidado.
	PaidStatuses []string
	Timeout      time.Duration
}

// BaseURL devuelve la URL del ambiente configurado.
func (c CoraConfig) BaseURL() string {
	if c.Environment == "production" {
		return c.ProductionURL
	}
	return c.SandboxURL
}

// GTINConfig catálogo de códigos de barras.
type GTINConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// StorageConfig almacenamiento de objetos S3 compatible para logos.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Enabled informa si hay almacenamiento de objetos configurado.
func (c StorageConfig) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != ""
}

// SessionConfig almacén de sesiones del asistente y carritos.
type SessionConfig struct {
	Driver        string // memory | redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// PlansConfig precios de los planes pagos (BRL).
type PlansConfig struct {
	MonthlyPrice string
	AnnualPrice  string
	TrialDays    int
}

// ReceiptConfig identidad del emisor impresa en el cupom.
type ReceiptConfig struct {
	CompanyName string
	Address     string
	City        string
	UF          string
	CEP         string
	CNPJ        string
	IE          string
	IM          string
	CCF         string
	CCD         string
	PixKey      string
}

// SentryConfig reporte de errores.
type SentryConfig struct {
	DSN string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Un .env en el directorio de trabajo se carga al entorno del proceso.
func Load() (*Config, error) {
	_ = godotenv.Load() // sin .env no es error

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "pdv-ldtnet"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "pdv"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "pdv-ldtnet"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			RateLimit:      getFloat(v, "HTTP_RATE_LIMIT", 5),
			RateBurst:      getInt(v, "HTTP_RATE_BURST", 20),
			RequireLicense: getBool(v, "HTTP_REQUIRE_LICENSE", false),
			CORSOrigins:    getString(v, "HTTP_CORS_ORIGINS", "*"),
		},
		Auth: AuthConfig{
			Provider:        getString(v, "AUTH_PROVIDER", "static"),
			StaticAccounts:  getString(v, "AUTH_STATIC_ACCOUNTS", ""),
			AdminEmails:     getList(v, "AUTH_ADMIN_EMAILS"),
			SupabaseURL:     getString(v, "SUPABASE_URL", ""),
			SupabaseAnonKey: getString(v, "SUPABASE_ANON_KEY", ""),
		},
		BrasilAPI: BrasilAPIConfig{
			BaseURL:  getString(v, "BRASILAPI_URL", "https://brasilapi.com.br"),
			Timeout:  getDuration(v, "BRASILAPI_TIMEOUT", 10*time.Second),
			RetryMax: getInt(v, "BRASILAPI_RETRY_MAX", 2),
		},
		Cora: CoraConfig{
			Environment:   getString(v, "CORA_ENV", "sandbox"),
			APIKey:        getString(v, "CORA_API_KEY", ""),
			PixKey:        getString(v, "CORA_PIX_KEY", ""),
			ProductionURL: getString(v, "CORA_PRODUCTION_URL", "https://api.cora.com.br/v1"),
			SandboxURL:    getString(v, "CORA_SANDBOX_URL", "https://api.cora.sandbox.com.br/v1"),
			PaidStatuses:  getListDefault(v, "CORA_PAID_STATUSES", []string{"CONCLUIDA", "RECEBIDA"}),
			Timeout:       getDuration(v, "CORA_TIMEOUT", 25*time.Second),
		},
		GTIN: GTINConfig{
			BaseURL: getString(v, "GTIN_URL", "https://gtin.rscsistemas.com.br/api/gtin/infor"),
			Token:   getString(v, "GTIN_TOKEN", ""),
			Timeout: getDuration(v, "GTIN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Endpoint:  getString(v, "STORAGE_ENDPOINT", ""),
			AccessKey: getString(v, "STORAGE_ACCESS_KEY", ""),
			SecretKey: getString(v, "STORAGE_SECRET_KEY", ""),
			Bucket:    getString(v, "STORAGE_BUCKET", "logos-empresas"),
			UseSSL:    getBool(v, "STORAGE_USE_SSL", true),
			PublicURL: getString(v, "STORAGE_PUBLIC_URL", ""),
		},
		Session: SessionConfig{
			Driver:        getString(v, "SESSION_DRIVER", "memory"),
			RedisAddr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getString(v, "REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "REDIS_DB", 0),
			TTL:           getDuration(v, "SESSION_TTL", 30*24*time.Hour),
		},
		Plans: PlansConfig{
			MonthlyPrice: getString(v, "PLAN_MONTHLY_PRICE", "49.90"),
			AnnualPrice:  getString(v, "PLAN_ANNUAL_PRICE", "499.00"),
			TrialDays:    getInt(v, "PLAN_TRIAL_DAYS", 15),
		},
		Receipt: ReceiptConfig{
			CompanyName: getString(v, "RECEIPT_COMPANY_NAME", "LDT NET TELECOM"),
			Address:     getString(v, "RECEIPT_ADDRESS", "AV AFONSO PENA, 1206 - TIROL"),
			City:        getString(v, "RECEIPT_CITY", "NATAL"),
			UF:          getString(v, "RECEIPT_UF", "RN"),
			CEP:         getString(v, "RECEIPT_CEP", "59020265"),
			CNPJ:        getString(v, "RECEIPT_CNPJ", "06.270.840/0001-50"),
			IE:          getString(v, "RECEIPT_IE", "20.558.140-4"),
			IM:          getString(v, "RECEIPT_IM", "00333666"),
			CCF:         getString(v, "RECEIPT_CCF", "120289"),
			CCD:         getString(v, "RECEIPT_CCD", "124857"),
			PixKey:      getString(v, "RECEIPT_PIX_KEY", "06.270.840/0001-50"),
		},
		Sentry: SentryConfig{
			DSN: getString(v, "SENTRY_DSN", ""),
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if !v.IsSet(key) {
		return def
	}
	f, err := strconv.ParseFloat(v.GetString(key), 64)
	if err != nil {
		return def
	}
	return f
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		return def
	}
	return b
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return def
	}
	return d
}

// getList lee una lista separada por comas.
func getList(v *viper.Viper, key string) []string {
	return getListDefault(v, key, nil)
}

func getListDefault(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
