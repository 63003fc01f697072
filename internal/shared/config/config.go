package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	JoPACC      JoPACCConfig
	OpenBanking OpenBankingConfig
	TLS         TLSConfig
	Telemetry   TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JoPACCConfig holds credentials and connection settings for the external
// Open Banking gateway. Signature is the institution's JWS request signature
// issued alongside its API credentials.
type JoPACCConfig struct {
	BaseURL     string
	APIToken    string
	FinancialID string
	Signature   string
	Timeout     time.Duration
}

// OpenBankingConfig controls customer scoping and dashboard assembly.
// DefaultCustomerID is the process-wide fallback used only when a request
// carries no customer identifier; it is injected configuration so tests can
// override it per case.
type OpenBankingConfig struct {
	DefaultCustomerID string
	DashboardPageSize int
}

type TLSConfig struct {
	Enabled  bool
	CertPath string
	KeyPath  string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtExpiration, err := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
	}

	upstreamTimeout, err := time.ParseDuration(getEnv("JOPACC_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOPACC_TIMEOUT: %w", err)
	}

	pageSize, err := strconv.Atoi(getEnv("DASHBOARD_PAGE_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_PAGE_SIZE: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", ""), ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "dinarx"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "dinarx"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			ExpirationHours: jwtExpiration,
		},
		JoPACC: JoPACCConfig{
			BaseURL:     getEnv("JOPACC_BASE_URL", "https://sandbox.jopacc.com"),
			APIToken:    getEnv("JOPACC_API_TOKEN", ""),
			FinancialID: getEnv("JOPACC_FINANCIAL_ID", ""),
			Signature:   getEnv("JOPACC_JWS_SIGNATURE", ""),
			Timeout:     upstreamTimeout,
		},
		OpenBanking: OpenBankingConfig{
			DefaultCustomerID: getEnv("DEFAULT_CUSTOMER_ID", ""),
			DashboardPageSize: pageSize,
		},
		TLS: TLSConfig{
			Enabled:  getBoolEnv("TLS_ENABLED", false),
			CertPath: getEnv("TLS_CERT_PATH", ""),
			KeyPath:  getEnv("TLS_KEY_PATH", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "dinarx-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.OpenBanking.DashboardPageSize <= 0 {
		return nil, fmt.Errorf("DASHBOARD_PAGE_SIZE must be positive")
	}
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
