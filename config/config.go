package config

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type AppConfig struct {
	PostgresURL   string
	ListenAddr    string
	KeywordsFile  string
	SearchMode    string
	SeedKeywords  bool
	KeycloakRealm string
	KeycloakURL   string
	SMTPHost      string
	SMTPPort      string
	SMTPFrom      string
	SMTPPassword  string
	AlertEmail    string
	AppEnv        string // EnvDevelopment or EnvProduction
	LogLevel      slog.Level
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.PostgresURL = loadRequired("POSTGRES_URL")
	cfg.ListenAddr = loadOptional("LISTEN_ADDR", ":8080")
	cfg.KeywordsFile = loadOptional("KEYWORDS_FILE", "illegal_keywords.json")
	cfg.SearchMode = loadOptional("SEARCH_MODE", "exact")
	cfg.SeedKeywords = loadBool("SEED_KEYWORDS", false)

	// Auth is disabled unless both are set.
	cfg.KeycloakURL = os.Getenv("KEYCLOAK_URL")
	cfg.KeycloakRealm = os.Getenv("KEYCLOAK_REALM")

	// Alerts are disabled without a recipient.
	cfg.AlertEmail = os.Getenv("ALERT_EMAIL")
	if cfg.AlertEmail != "" {
		cfg.SMTPHost = loadRequired("SMTP_HOST")
		cfg.SMTPPort = loadOptional("SMTP_PORT", "587")
		cfg.SMTPFrom = loadRequired("SMTP_FROM")
		cfg.SMTPPassword = loadRequired("SMTP_PASSWORD")
	}

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	var err error
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func loadBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Error("Invalid boolean env var", "key", key, "value", value)
		return defaultValue
	}
	return b
}

func (c AppConfig) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c AppConfig) AuthEnabled() bool {
	return c.KeycloakURL != "" && c.KeycloakRealm != ""
}

func (c AppConfig) AlertsEnabled() bool {
	return c.AlertEmail != ""
}
