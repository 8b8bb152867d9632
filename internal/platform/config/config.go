package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. Values come from the
// environment so main stays lean and deployments stay twelve-factor.
type Config struct {
	Addr          string
	JWTSigningKey string
	LogFormat     string // "text" or "json"

	// PostgresURL selects the PostgreSQL backends when set; otherwise the
	// service runs on in-memory stores (dev and test profile).
	PostgresURL string

	Redis RedisConfig

	// KafkaBrokers enables the audit event stream when non-empty.
	KafkaBrokers    []string
	KafkaAuditTopic string

	// AuditBuffer bounds the async audit inbox; events beyond it are dropped
	// and counted rather than blocking request handling.
	AuditBuffer int
}

// RedisConfig holds connection tuning for the optional Redis preference
// backend. An empty URL means Redis is not configured.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("ROUTEWISE_ADDR", ":8080"),
		JWTSigningKey:   envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		LogFormat:       envOr("LOG_FORMAT", "text"),
		PostgresURL:     os.Getenv("POSTGRES_URL"),
		KafkaAuditTopic: envOr("KAFKA_AUDIT_TOPIC", "routewise.audit.v1"),
		AuditBuffer:     envIntOr("AUDIT_BUFFER", 1024),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitCSV(brokers)
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
