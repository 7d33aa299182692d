package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Mail     MailConfig
	Storage  StorageConfig
	OAuth    OAuthConfig
	Payment  PaymentConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLHours     int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// MailConfig holds transactional email settings.
type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	FrontendURL    string
}

// StorageConfig holds Cloudinary credentials and upload folders.
type StorageConfig struct {
	CloudName        string
	APIKey           string
	APISecret        string
	OnboardingFolder string
	EventFolder      string
}

// OAuthConfig holds Google OAuth client settings.
type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string
}

// PaymentConfig carries the static payment instructions included in
// payment-pending notifications.
type PaymentConfig struct {
	BankName          string
	BankAccountName   string
	BankAccountNumber string
	BankBranch        string
	MomoProvider      string
	MomoNumber        string
	MomoName          string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "membership-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "7700"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLHours:     getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_HOURS", 168),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 15),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Mail: MailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      getEnv("SENDGRID_FROM_EMAIL", "noreply@example.com"),
			FromName:       getEnv("SENDGRID_FROM_NAME", "Membership Support"),
			FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Storage: StorageConfig{
			CloudName:        os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:           os.Getenv("CLOUDINARY_API_KEY"),
			APISecret:        os.Getenv("CLOUDINARY_API_SECRET"),
			OnboardingFolder: getEnv("CLOUDINARY_ONBOARDING_FOLDER", "onboarding_uploads"),
			EventFolder:      getEnv("CLOUDINARY_EVENT_FOLDER", "event_uploads"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			BaseURL:            getEnv("OAUTH_BASE_URL", "http://localhost:7700"),
		},
		Payment: PaymentConfig{
			BankName:          getEnv("PAYMENT_BANK_NAME", ""),
			BankAccountName:   getEnv("PAYMENT_BANK_ACCOUNT_NAME", ""),
			BankAccountNumber: getEnv("PAYMENT_BANK_ACCOUNT_NUMBER", ""),
			BankBranch:        getEnv("PAYMENT_BANK_BRANCH", ""),
			MomoProvider:      getEnv("PAYMENT_MOMO_PROVIDER", ""),
			MomoNumber:        getEnv("PAYMENT_MOMO_NUMBER", ""),
			MomoName:          getEnv("PAYMENT_MOMO_NAME", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
