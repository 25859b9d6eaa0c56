// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/saakcy7/kindfund/pkg/db" // Import db package for its Config struct
)

// Ledger backends selectable through LEDGER_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// DefaultCharityAddress is the recipient used when CHARITY_ADDRESS is not set.
const DefaultCharityAddress = "0x7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b"

// ChainConfig holds the on-chain settings the donation flow depends on.
type ChainConfig struct {
	CharityAddress  string
	PackageID       string // Empty or placeholder until the Move package is deployed
	Network         string
	ExplorerBaseURL string
	MoveModule      string
	MoveEntry       string
}

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort         string
	LogLevel           string
	LedgerBackend      string
	CORSAllowedOrigins []string
	RateLimitPerMinute int  // 0 disables rate limiting of donation submissions
	TrustProxy         bool // Honour X-Forwarded-For / X-Real-IP; only safe behind a proxy that sets them
	Chain              ChainConfig
	DB                 db.Config
}

// LoadConfig loads configuration from environment variables, after reading a
// .env file from the working directory when one exists.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load() // A missing .env file is not an error; real env vars take precedence

	serverPort := getEnv("SERVER_PORT", getEnv("PORT", "5000"))

	backend := strings.ToLower(getEnv("LEDGER_BACKEND", BackendMemory))
	if backend != BackendMemory && backend != BackendPostgres {
		return nil, fmt.Errorf("invalid LEDGER_BACKEND %q: must be %q or %q", backend, BackendMemory, BackendPostgres)
	}

	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return nil, err
	}
	if rateLimit < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: must not be negative")
	}

	trustProxy, err := getEnvBool("TRUST_PROXY", false)
	if err != nil {
		return nil, err
	}

	dbPort, err := getEnvInt("DB_PORT", 5432) // Default PostgreSQL port
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		ServerPort:         serverPort,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LedgerBackend:      backend,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerMinute: rateLimit,
		TrustProxy:         trustProxy,
		Chain: ChainConfig{
			CharityAddress:  getEnv("CHARITY_ADDRESS", DefaultCharityAddress),
			PackageID:       strings.TrimSpace(os.Getenv("PACKAGE_ID")),
			Network:         getEnv("NETWORK", "testnet"),
			ExplorerBaseURL: getEnv("EXPLORER_BASE_URL", "https://suiscan.xyz"),
			MoveModule:      getEnv("MOVE_MODULE", "donation"),
			MoveEntry:       getEnv("MOVE_ENTRY", "donate"),
		},
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "kindfund"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
