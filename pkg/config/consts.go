package config

const (
	EnvPrefix = "propshare"

	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "PROPSHARE_APP_ENV"
	EnvPort                   = "PROPSHARE_APP_PORT"
	EnvLogLevel               = "PROPSHARE_LOG_LEVEL"
	EnvDBDSN                  = "PROPSHARE_DB_DSN"
	EnvDBHost                 = "PROPSHARE_DB_HOST"
	EnvDBUser                 = "PROPSHARE_DB_USER"
	EnvDBName                 = "PROPSHARE_DB_NAME"
	EnvRedisURL               = "PROPSHARE_REDIS_URL"
	EnvJWTSecret              = "PROPSHARE_JWT_SECRET"
	EnvJWTIssuer              = "PROPSHARE_JWT_ISSUER"
	EnvJWTExpMins             = "PROPSHARE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PROPSHARE_REFRESH_TOKEN_TTL_MINUTES"
	EnvKYCBaseURL             = "PROPSHARE_KYC_BASE_URL"
	EnvKYCAPIKey              = "PROPSHARE_KYC_API_KEY"
	EnvCommissionRate         = "PROPSHARE_COMMISSION_RATE"
	EnvPendingPaymentTTL      = "PROPSHARE_PENDING_PAYMENT_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
