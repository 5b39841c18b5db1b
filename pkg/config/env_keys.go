package config

const EnvPrefix = "SWIFTDROP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "SWIFTDROP_APP_ENV"
	EnvPort     = "SWIFTDROP_APP_PORT"
	EnvDBDSN    = "SWIFTDROP_DB_DSN"
	EnvDBHost   = "SWIFTDROP_DB_HOST"
	EnvDBUser   = "SWIFTDROP_DB_USER"
	EnvDBName   = "SWIFTDROP_DB_NAME"
	EnvRedisURL = "SWIFTDROP_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
