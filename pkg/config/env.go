package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without a tag.
const EnvPrefix = "DEALERHUB"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "DEALERHUB_DB_DSN"
	EnvDBHost = "DEALERHUB_DB_HOST"
	EnvDBUser = "DEALERHUB_DB_USER"
	EnvDBName = "DEALERHUB_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
