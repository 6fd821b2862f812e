package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Admission AdmissionConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	ProxyHeader        string   // e.g. "X-Forwarded-For" behind a load balancer, empty to use the socket address
	TrustedProxies     []string // peers allowed to set ProxyHeader, IPs or CIDR ranges
	RedisURL           string
	AdmissionLogPath   string
}

type DatabaseConfig struct {
	Connection string
}

type AdmissionConfig struct {
	Mode               string // "LIVE" or "DRY_RUN"
	Store              string // "memory" or "redis"
	Capacity           int
	RefillRate         int
	Interval           time.Duration
	AllowBotCategories []string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			ProxyHeader:        getEnv("PROXY_HEADER", ""),
			TrustedProxies:     getEnvAsList("TRUSTED_PROXIES", []string{"127.0.0.1", "::1"}),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			AdmissionLogPath:   getEnv("ADMISSION_LOG_PATH", "logs/admission.log"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Admission: AdmissionConfig{
			Mode:               strings.ToUpper(getEnv("ADMISSION_MODE", "LIVE")),
			Store:              strings.ToLower(getEnv("ADMISSION_STORE", "memory")),
			Capacity:           getEnvAsInt("RATE_LIMIT_CAPACITY", 10),
			RefillRate:         getEnvAsInt("RATE_LIMIT_REFILL_RATE", 5),
			Interval:           getEnvAsDuration("RATE_LIMIT_INTERVAL", 10*time.Second),
			AllowBotCategories: getEnvAsList("BOT_ALLOW_CATEGORIES", []string{"SEARCH_ENGINE", "PREVIEW"}),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("10s") or a bare number of seconds ("10").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
