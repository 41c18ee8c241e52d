package config

const (
	EnvPrefix = "SUPPLYBOT"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "SUPPLYBOT_APP_ENV"
	EnvPort   = "SUPPLYBOT_APP_PORT"
	EnvDBDSN  = "SUPPLYBOT_DB_DSN"
	EnvDBHost = "SUPPLYBOT_DB_HOST"
	EnvDBUser = "SUPPLYBOT_DB_USER"
	EnvDBName = "SUPPLYBOT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
