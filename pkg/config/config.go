package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "BODEGON"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BODEGON_APP_ENV" required:"true"`
	Port         string `envconfig:"BODEGON_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BODEGON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BODEGON_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BODEGON_DB_DSN"`
	Driver string `envconfig:"BODEGON_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BODEGON_DB_HOST"`
	LegacyPort     int    `envconfig:"BODEGON_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BODEGON_DB_USER"`
	LegacyPassword string `envconfig:"BODEGON_DB_PASSWORD"`
	LegacyName     string `envconfig:"BODEGON_DB_NAME"`
	LegacySSLMode  string `envconfig:"BODEGON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BODEGON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BODEGON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BODEGON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BODEGON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BODEGON_REDIS_URL"`
	Address      string        `envconfig:"BODEGON_REDIS_ADDR"`
	Password     string        `envconfig:"BODEGON_REDIS_PASSWORD"`
	DB           int           `envconfig:"BODEGON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BODEGON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BODEGON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BODEGON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BODEGON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BODEGON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BODEGON_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BODEGON_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BODEGON_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CartConfig struct {
	// ReloadDebounce delays the change-feed-triggered cart reload so bursts
	// of row events collapse into a single canonical read.
	ReloadDebounce time.Duration `envconfig:"BODEGON_CART_RELOAD_DEBOUNCE" default:"300ms"`
	// CacheMaxAge bounds how stale the fallback cart cache may be before it
	// is discarded instead of served.
	CacheMaxAge time.Duration `envconfig:"BODEGON_CART_CACHE_MAX_AGE" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BODEGON_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"BODEGON_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	// OpsAlertTopic receives orphaned-write alerts for manual reconciliation.
	// Alerting is disabled when the topic or project id is empty.
	OpsAlertTopic string `envconfig:"BODEGON_PUBSUB_OPS_ALERT_TOPIC"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"BODEGON_DB_HOST": db.LegacyHost,
		"BODEGON_DB_USER": db.LegacyUser,
		"BODEGON_DB_NAME": db.LegacyName,
	}
	for _, key := range []string{"BODEGON_DB_HOST", "BODEGON_DB_USER", "BODEGON_DB_NAME"} {
		if legacyValues[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either BODEGON_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
