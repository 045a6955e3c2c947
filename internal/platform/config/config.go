package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration so main stays lean. Everything
// is sourced from the environment; unset values fall back to development
// defaults.
type Config struct {
	Addr string

	// Admin is the fixed administrative credential pair. It is injected here
	// rather than compiled into the resolver so the core carries no embedded
	// secrets. When PasswordHash is set it takes precedence over Password and
	// is verified as a bcrypt hash.
	Admin AdminConfig

	// PostgresDSN enables the postgres-backed stores when non-empty; the
	// in-memory stores are used otherwise.
	PostgresDSN string

	Redis   RedisConfig
	Kafka   KafkaConfig
	Lockout LockoutConfig

	ShutdownTimeout time.Duration
}

// AdminConfig holds the administrative login short-circuit credentials.
type AdminConfig struct {
	Login        string
	Password     string
	PasswordHash string
}

// RedisConfig holds connection settings for the optional Redis-backed
// lockout store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the audit event publisher. An empty Seeds
// disables Kafka publishing; audit events then go to the log sink only.
type KafkaConfig struct {
	Seeds      []string
	AuditTopic string
}

// LockoutConfig tunes the authentication lockout guard. Disabled by default:
// the resolver's observable behavior then matches plain credential
// verification exactly.
type LockoutConfig struct {
	Enabled           bool
	AttemptsPerWindow int
	Window            time.Duration
	LockDuration      time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr: envOr("CLINICORE_ADDR", ":8080"),
		Admin: AdminConfig{
			Login:        envOr("CLINICORE_ADMIN_LOGIN", "admin"),
			Password:     envOr("CLINICORE_ADMIN_PASSWORD", "admin"),
			PasswordHash: os.Getenv("CLINICORE_ADMIN_PASSWORD_HASH"),
		},
		PostgresDSN: os.Getenv("CLINICORE_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("CLINICORE_REDIS_URL"),
			PoolSize:     envInt("CLINICORE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CLINICORE_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("CLINICORE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("CLINICORE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("CLINICORE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Seeds:      splitNonEmpty(os.Getenv("CLINICORE_KAFKA_SEEDS")),
			AuditTopic: envOr("CLINICORE_AUDIT_TOPIC", "clinicore.audit"),
		},
		Lockout: LockoutConfig{
			Enabled:           os.Getenv("CLINICORE_LOCKOUT_ENABLED") == "true",
			AttemptsPerWindow: envInt("CLINICORE_LOCKOUT_ATTEMPTS", 5),
			Window:            envDuration("CLINICORE_LOCKOUT_WINDOW", 15*time.Minute),
			LockDuration:      envDuration("CLINICORE_LOCKOUT_DURATION", 15*time.Minute),
		},
		ShutdownTimeout: envDuration("CLINICORE_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
