package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port             int
	DBDSN            string
	DBMaxConns       int32
	DBConnectTimeout time.Duration
	DBQueryTimeout   time.Duration
	RedisURL         string
	AdminKeyHash     string
	InviteTTL        time.Duration
	RegisterURL      string
	NotifyWebhookURL string
	AllowOrigins     []string
	TrustProxy       bool
	RateLimitPublic  RateLimitConfig
	RateLimitAdmin   RateLimitConfig
	MigrateOnStart   bool
	LogLevel         string
	LogFormat        string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = strings.TrimSpace(getEnv("DB_DSN", ""))
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil || maxConns <= 0 {
		return nil, errors.New("DB_MAX_CONNS inválido")
	}
	cfg.DBMaxConns = int32(maxConns)

	if cfg.DBConnectTimeout, err = parseDurationEnv("DB_CONNECT_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.DBQueryTimeout, err = parseDurationEnv("DB_QUERY_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))

	cfg.AdminKeyHash = strings.TrimSpace(getEnv("ADMIN_KEY_HASH", ""))
	if !strings.HasPrefix(cfg.AdminKeyHash, "$argon2id$") {
		return nil, errors.New("ADMIN_KEY_HASH obrigatório (gere com cmd/hashpass)")
	}

	if cfg.InviteTTL, err = parseDurationEnv("INVITE_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	cfg.RegisterURL = strings.TrimSpace(getEnv("REGISTER_URL", "http://localhost:3000/register"))
	cfg.NotifyWebhookURL = strings.TrimSpace(getEnv("NOTIFY_WEBHOOK_URL", ""))

	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", ""))

	cfg.TrustProxy, err = strconv.ParseBool(getEnv("TRUST_PROXY", "false"))
	if err != nil {
		return nil, errors.New("TRUST_PROXY inválido")
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 5, Burst: 10}
	cfg.RateLimitAdmin = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false"))
	if err != nil {
		return nil, errors.New("MIGRATE_ON_START inválido")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info")))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", "console")))

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil || dur <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
