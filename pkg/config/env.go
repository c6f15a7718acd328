package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "SHOPLYTICS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv        = "SHOPLYTICS_APP_ENV"
	EnvPort          = "SHOPLYTICS_APP_PORT"
	EnvRedisURL      = "SHOPLYTICS_REDIS_URL"
	EnvCacheSalesTTL = "SHOPLYTICS_CACHE_SALES_TTL"

	EnvDBDSN  = "SHOPLYTICS_DB_DSN"
	EnvDBHost = "SHOPLYTICS_DB_HOST"
	EnvDBUser = "SHOPLYTICS_DB_USER"
	EnvDBName = "SHOPLYTICS_DB_NAME"
	EnvDBPort = "SHOPLYTICS_DB_PORT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
