package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3000
	defaultEnv        = "development"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	StorageS3    = "s3"
	StorageMinIO = "minio"
	StorageLocal = "local"

	defaultDBDriver   = DriverMySQL
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "portfolio"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSQLitePath = "portfolio.db"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultStorageDriver = StorageLocal
	defaultStorageRegion = "us-east-1"
	defaultLocalDir      = "objects"
	defaultLocalBaseURL  = "/objects"
)

// Environment overrides for secrets that should not live in the YAML file.
const (
	EnvDatabaseDSN      = "PORTFOLIO_DB_DSN"
	EnvDatabasePassword = "PORTFOLIO_DB_PASSWORD"
	EnvRedisPassword    = "PORTFOLIO_REDIS_PASSWORD"
	EnvStorageAccessKey = "PORTFOLIO_STORAGE_ACCESS_KEY"
	EnvStorageSecretKey = "PORTFOLIO_STORAGE_SECRET_KEY"
)
