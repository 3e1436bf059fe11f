package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Stats        StatsConfig
	Metrics      MetricsConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"FARMBATCH_APP_ENV" required:"true"`
	Port         string `envconfig:"FARMBATCH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FARMBATCH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FARMBATCH_LOG_WARN_STACK" default:"false"`
	// Timezone is used to render cutoff/delivery dates in logs; all comparisons are UTC.
	Timezone    string   `envconfig:"FARMBATCH_TIMEZONE" default:"Asia/Kolkata"`
	CORSOrigins []string `envconfig:"FARMBATCH_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FARMBATCH_DB_DSN"`
	Driver string `envconfig:"FARMBATCH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FARMBATCH_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMBATCH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMBATCH_DB_USER"`
	LegacyPassword string `envconfig:"FARMBATCH_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMBATCH_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMBATCH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMBATCH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMBATCH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMBATCH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMBATCH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMBATCH_REDIS_URL"`
	Address      string        `envconfig:"FARMBATCH_REDIS_ADDR"`
	Password     string        `envconfig:"FARMBATCH_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMBATCH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMBATCH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMBATCH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMBATCH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMBATCH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMBATCH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FARMBATCH_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FARMBATCH_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FARMBATCH_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FARMBATCH_AUTO_MIGRATE" default:"false"`
	Idempotency bool `envconfig:"FARMBATCH_IDEMPOTENCY" default:"true"`
}

type StatsConfig struct {
	CacheTTL time.Duration `envconfig:"FARMBATCH_STATS_CACHE_TTL" default:"5m"`
}

// RateLimitConfig throttles the unauthenticated surface per client IP.
type RateLimitConfig struct {
	PublicWindow time.Duration `envconfig:"FARMBATCH_PUBLIC_RATE_LIMIT_WINDOW" default:"1m"`
	PublicLimit  int           `envconfig:"FARMBATCH_PUBLIC_RATE_LIMIT" default:"120"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"FARMBATCH_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"FARMBATCH_METRICS_PATH" default:"/metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
