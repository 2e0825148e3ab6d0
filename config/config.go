package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port    string
	AppMode string

	DBDriver string
	DBPath   string
	DBDSN    string

	JWTSecret     string
	JWTTTLMinutes int

	LLMProvider  string
	LLMEndpoint  string
	LLMAPIKey    string
	LLMModel     string
	GeminiAPIKey string
	GeminiModel  string

	WeatherAPIKey  string
	WeatherBaseURL string

	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	WeatherCacheTTLMinutes int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	ScheduleTemplatePath string

	KBAllowedDomains  []string
	KBMaxBytesPerPage int

	CORSOrigins []string
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		v, err := strconv.Atoi(get(k, ""))
		if err != nil {
			return def
		}
		return v
	}
	list := func(k, def string) []string {
		var out []string
		for _, p := range strings.Split(get(k, def), ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	cfg := AppConfig{
		Port:    get("PORT", "8001"),
		AppMode: get("APP_MODE", "dev"),

		DBDriver: get("DB_DRIVER", "sqlite"),
		DBPath:   get("DB_PATH", "agriverse.db"),
		DBDSN:    get("DB_DSN", ""),

		JWTSecret:     get("JWT_SECRET", "change-me"),
		JWTTTLMinutes: getInt("JWT_TTL_MINUTES", 30),

		LLMProvider:  strings.ToLower(get("LLM_PROVIDER", "")),
		LLMEndpoint:  get("LLM_ENDPOINT", ""),
		LLMAPIKey:    get("LLM_API_KEY", ""),
		LLMModel:     get("LLM_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: get("GEMINI_API_KEY", ""),
		GeminiModel:  get("GEMINI_MODEL", "gemini-2.0-flash"),

		WeatherAPIKey:  get("WEATHER_API_KEY", ""),
		WeatherBaseURL: get("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),

		RedisAddr:              get("REDIS_ADDR", ""),
		RedisPassword:          get("REDIS_PASSWORD", ""),
		RedisDB:                getInt("REDIS_DB", 0),
		WeatherCacheTTLMinutes: getInt("WEATHER_CACHE_TTL_MINUTES", 30),

		MinioEndpoint:  get("MINIO_ENDPOINT", ""),
		MinioAccessKey: get("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: get("MINIO_SECRET_KEY", ""),
		MinioBucket:    get("MINIO_BUCKET", "growth-photos"),
		MinioUseSSL:    get("MINIO_USE_SSL", "false") == "true",

		ScheduleTemplatePath: get("SCHEDULE_TEMPLATE_PATH", ""),

		KBAllowedDomains:  list("KB_ALLOWED_DOMAINS", ""),
		KBMaxBytesPerPage: getInt("KB_MAX_BYTES_PER_PAGE", 1500000),

		CORSOrigins: list("CORS_ORIGINS", "*"),
	}
	if cfg.LLMProvider == "" {
		switch {
		case cfg.GeminiAPIKey != "":
			cfg.LLMProvider = "gemini"
		case cfg.LLMEndpoint != "" && cfg.LLMAPIKey != "":
			cfg.LLMProvider = "openai"
		default:
			cfg.LLMProvider = "mock"
		}
	}
	return cfg
}

// Redacted returns a copy that is safe to log.
func (c AppConfig) Redacted() AppConfig {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.JWTSecret = mask(c.JWTSecret)
	c.LLMAPIKey = mask(c.LLMAPIKey)
	c.GeminiAPIKey = mask(c.GeminiAPIKey)
	c.WeatherAPIKey = mask(c.WeatherAPIKey)
	c.RedisPassword = mask(c.RedisPassword)
	c.MinioSecretKey = mask(c.MinioSecretKey)
	c.DBDSN = mask(c.DBDSN)
	return c
}
