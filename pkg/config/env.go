package config

// EnvPrefix is handed to envconfig; every field carries its full name via the envconfig tag.
const EnvPrefix = "FARMBATCH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "FARMBATCH_APP_ENV"
	EnvPort      = "FARMBATCH_APP_PORT"
	EnvLogLevel  = "FARMBATCH_LOG_LEVEL"
	EnvDBDSN     = "FARMBATCH_DB_DSN"
	EnvDBHost    = "FARMBATCH_DB_HOST"
	EnvDBPort    = "FARMBATCH_DB_PORT"
	EnvDBUser    = "FARMBATCH_DB_USER"
	EnvDBPass    = "FARMBATCH_DB_PASSWORD"
	EnvDBName    = "FARMBATCH_DB_NAME"
	EnvRedisURL  = "FARMBATCH_REDIS_URL"
	EnvJWTSecret = "FARMBATCH_JWT_SECRET"
	EnvJWTIssuer = "FARMBATCH_JWT_ISSUER"
	EnvJWTExpMin = "FARMBATCH_JWT_EXPIRATION_MINUTES"
	EnvStatsTTL  = "FARMBATCH_STATS_CACHE_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
