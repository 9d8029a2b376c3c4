package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 6
	PasswordMaxLength  = 72
	PasswordMaxBytes   = 72
	PhoneMinDigits     = 10
	PhoneMaxDigits     = 15
	EmailMaxLength     = 254
	JWTSecretMinLength = 32

	DateLayout = "2006-01-02"

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBMigrationTimeout    = 1 * time.Minute

	MongoConnectTimeout = 10 * time.Second
	MongoIndexTimeout   = 10 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "5000"
	DefaultStoreDriver    = "postgres"
	DefaultMongoDatabase  = "userprofile"
	DefaultTokenTTL       = 24 * time.Hour
	DefaultBcryptCost     = 12
	DefaultRequestTimeout = 5 * time.Second

	DefaultClientTimeout = 10 * time.Second
	DefaultServerURL     = "http://localhost:5000"

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28

	TestJWTSecret  = "test-secret-key-that-is-long-enough-32"
	TestTokenTTL   = 24 * time.Hour
	TestBcryptCost = 4
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
