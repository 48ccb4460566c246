package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Auth      AuthConfig
	Scada     ScadaConfig
	Cmms      CmmsConfig
	Dispatch  DispatchConfig
	RateLimit RateLimitConfig
	Log       LogConfig

	// TablesFile: 태그 매핑/임계값 규칙 YAML 경로 (비어 있으면 내장 기본값 사용)
	TablesFile string
}

type ServerConfig struct {
	Port string

	// AllowedOrigins: CORS 허용 origin 목록 (비어 있으면 CORS 헤더 미발급)
	AllowedOrigins []string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type AuthConfig struct {
	JWTSecret     string
	JWTAccessTTL  string
	AdminLoginID  string
	AdminPassword string
	AdminPlantID  string
}

// ScadaConfig - OPC UA 엔드포인트와 태그 목록
// 둘 다 설정된 경우에만 config-driven 모드로 동작하고, 아니면 내장 mock 태그 사용
type ScadaConfig struct {
	Endpoint string
	TagList  []string
}

type CmmsConfig struct {
	BaseURL      string
	APIKey       string
	ForceFailure bool
}

type DispatchConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
}

type RateLimitConfig struct {
	Window       time.Duration
	MaxPerWindow int
	MaxKeys      int
}

type LogConfig struct {
	Format string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getenv("PORT", "8080"),
			AllowedOrigins: splitTags(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			JWTAccessTTL:  getenv("JWT_ACCESS_TTL", "1h"),
			AdminLoginID:  getenv("ADMIN_LOGIN_ID", "admin"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			AdminPlantID:  getenv("ADMIN_PLANT_ID", "default_plant"),
		},
		Scada: ScadaConfig{
			Endpoint: strings.TrimSpace(os.Getenv("OPC_UA_ENDPOINT")),
			TagList:  splitTags(os.Getenv("OPC_UA_TAG_LIST")),
		},
		Cmms: CmmsConfig{
			BaseURL:      strings.TrimSpace(os.Getenv("CMMS_BASE_URL")),
			APIKey:       os.Getenv("CMMS_API_KEY"),
			ForceFailure: os.Getenv("CMMS_FORCE_FAILURE") == "1",
		},
		Dispatch: DispatchConfig{
			MaxAttempts: getenvInt("DISPATCH_MAX_ATTEMPTS", 3),
			BackoffBase: getenvDuration("DISPATCH_BACKOFF_BASE", time.Second),
		},
		RateLimit: RateLimitConfig{
			Window:       getenvDuration("RATE_LIMIT_WINDOW", time.Minute),
			MaxPerWindow: getenvInt("RATE_LIMIT_MAX", 60),
			MaxKeys:      getenvInt("RATE_LIMIT_MAX_KEYS", 10000),
		},
		Log: LogConfig{
			Format: getenv("LOG_FORMAT", "json"),
		},
		TablesFile: os.Getenv("PLANT_TABLES_FILE"),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
