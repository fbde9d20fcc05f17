package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tecchohotel/service-booking/pkg/config"
)

// Ledger backends.
const (
	LedgerBackendSQL = "sql"
	LedgerBackendKV  = "kv"
)

// DefaultPaymentDelay is the artificial wait before a checkout confirms.
const DefaultPaymentDelay = 1500 * time.Millisecond

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	DBConfig       config.DatabaseConfig
	JWTConfig      config.JWTConfig
	KafkaConfig    config.KafkaConfig
	LedgerBackend  string
	PaymentDelay   time.Duration
	AdminEmails    []string
	AllowedOrigins []string
	MigrationsDir  string
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "booking_db")
	v.SetDefault("LEDGER_BACKEND", LedgerBackendSQL)
	v.SetDefault("PAYMENT_DELAY", DefaultPaymentDelay.String())
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	backend := strings.ToLower(strings.TrimSpace(v.GetString("LEDGER_BACKEND")))
	if backend != LedgerBackendSQL && backend != LedgerBackendKV {
		return nil, fmt.Errorf("unsupported ledger backend %q", backend)
	}

	delay := v.GetDuration("PAYMENT_DELAY")
	if delay < 0 {
		return nil, fmt.Errorf("payment delay must not be negative, got %s", delay)
	}

	return &ServiceConfig{
		Port:           config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:         config.GetAppEnv(v),
		DBConfig:       config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:      config.LoadJWTConfig(v),
		KafkaConfig:    config.LoadKafkaConfig(v),
		LedgerBackend:  backend,
		PaymentDelay:   delay,
		AdminEmails:    config.SplitList(v.GetString("ADMIN_EMAILS")),
		AllowedOrigins: config.SplitList(v.GetString("ALLOWED_ORIGINS")),
		MigrationsDir:  v.GetString("MIGRATIONS_DIR"),
	}, nil
}
