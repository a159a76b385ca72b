package config

const EnvPrefix = "FOODWASTE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	DefaultSQLiteDSN = "local_food_wastage.db"
)

const (
	EnvAppEnv   = "FOODWASTE_APP_ENV"
	EnvPort     = "FOODWASTE_APP_PORT"
	EnvLogLevel = "FOODWASTE_LOG_LEVEL"

	EnvDBDSN    = "FOODWASTE_DB_DSN"
	EnvDBDriver = "FOODWASTE_DB_DRIVER"
	EnvDBHost   = "FOODWASTE_DB_HOST"
	EnvDBUser   = "FOODWASTE_DB_USER"
	EnvDBName   = "FOODWASTE_DB_NAME"

	EnvRedisURL = "FOODWASTE_REDIS_URL"

	EnvExpiryInterval      = "FOODWASTE_EXPIRY_INTERVAL"
	EnvExpiryRefreshOnRead = "FOODWASTE_EXPIRY_REFRESH_ON_READ"
)

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
