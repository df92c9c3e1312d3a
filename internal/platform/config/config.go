// Pacote config centraliza o carregamento das variáveis de ambiente usadas pelos binários.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config agrega todos os parâmetros necessários para a API e o seed.
type Config struct {
	HTTPAddress string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitEnabled       bool
	RateLimitMaxRequests   int
	RateLimitWindowSeconds int
	RateLimitKeyPrefix     string

	AutoMigrate bool

	DefaultPageSize int
	MaxPageSize     int

	SeedOperatorEmail      string
	SeedOperatorPassword   string
	SeedSupervisorEmail    string
	SeedSupervisorPassword string
}

func Load() (Config, error) {
	// Defaults priorizam execução local; variáveis permitem sobrescrever em Docker/K8s.
	cfg := Config{
		HTTPAddress:            getEnv("HTTP_ADDRESS", ":8080"),
		PostgresHost:           getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:           getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:           getEnv("POSTGRES_USER", "rondas"),
		PostgresPassword:       getEnv("POSTGRES_PASSWORD", "rondas"),
		PostgresDB:             getEnv("POSTGRES_DB", "rondas"),
		PostgresSSLMode:        getEnv("POSTGRES_SSLMODE", "disable"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RateLimitEnabled:       getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitMaxRequests:   getEnvAsInt("RATE_LIMIT_MAX", 60),
		RateLimitWindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitKeyPrefix:     getEnv("RATE_LIMIT_PREFIX", "ratelimit"),
		AutoMigrate:            getEnvAsBool("DB_AUTO_MIGRATE", true),
		DefaultPageSize:        getEnvAsInt("PAGE_SIZE_DEFAULT", 20),
		MaxPageSize:            getEnvAsInt("PAGE_SIZE_MAX", 100),
		SeedOperatorEmail:      getEnv("SEED_OPERATOR_EMAIL", "henrique@example.com"),
		SeedOperatorPassword:   getEnv("SEED_OPERATOR_PASSWORD", "password"),
		SeedSupervisorEmail:    getEnv("SEED_SUPERVISOR_EMAIL", "sup@example.com"),
		SeedSupervisorPassword: getEnv("SEED_SUPERVISOR_PASSWORD", "password"),
	}

	dbStr := getEnv("REDIS_DB", "0")
	dbInt, err := strconv.Atoi(dbStr)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	// Mantemos o formato DSN compatível com GORM e ferramentas de migração.
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}
