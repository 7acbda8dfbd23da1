package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	KYC           KYCConfig
	Commission    CommissionConfig
	Workflow      WorkflowConfig
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
	Env          string `envconfig:"PROPSHARE_APP_ENV" required:"true"`
	Port         string `envconfig:"PROPSHARE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PROPSHARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PROPSHARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PROPSHARE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PROPSHARE_DB_DSN"`
	Driver string `envconfig:"PROPSHARE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PROPSHARE_DB_HOST"`
	LegacyPort     int    `envconfig:"PROPSHARE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PROPSHARE_DB_USER"`
	LegacyPassword string `envconfig:"PROPSHARE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PROPSHARE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PROPSHARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PROPSHARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PROPSHARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PROPSHARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PROPSHARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
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

type RedisConfig struct {
	URL          string        `envconfig:"PROPSHARE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PROPSHARE_REDIS_ADDR"`
	Password     string        `envconfig:"PROPSHARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROPSHARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROPSHARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROPSHARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROPSHARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROPSHARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROPSHARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PROPSHARE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PROPSHARE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PROPSHARE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PROPSHARE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PROPSHARE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PROPSHARE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PROPSHARE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PROPSHARE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PROPSHARE_ARGON_KEY_LEN" default:"32"`
}

type OTPConfig struct {
	Length      int           `envconfig:"PROPSHARE_OTP_LENGTH" default:"6"`
	TTL         time.Duration `envconfig:"PROPSHARE_OTP_TTL" default:"5m"`
	MaxAttempts int           `envconfig:"PROPSHARE_OTP_MAX_ATTEMPTS" default:"5"`
	// DevEcho returns the generated code in the send-otp response outside prod.
	DevEcho bool `envconfig:"PROPSHARE_OTP_DEV_ECHO" default:"false"`
}

type AuthRateLimitConfig struct {
	OTPWindow     time.Duration `envconfig:"PROPSHARE_AUTH_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPPhoneLimit int           `envconfig:"PROPSHARE_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPIPLimit    int           `envconfig:"PROPSHARE_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PROPSHARE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PROPSHARE_AUTO_MIGRATE" default:"false"`
}

type KYCConfig struct {
	BaseURL string        `envconfig:"PROPSHARE_KYC_BASE_URL"`
	APIKey  string        `envconfig:"PROPSHARE_KYC_API_KEY"`
	Timeout time.Duration `envconfig:"PROPSHARE_KYC_TIMEOUT" default:"15s"`
}

type CommissionConfig struct {
	// Rate is the referral commission as a fraction of the invested amount.
	Rate string `envconfig:"PROPSHARE_COMMISSION_RATE" default:"0.02"`
}

type WorkflowConfig struct {
	// PendingPaymentTTL bounds how long an investment may sit in
	// pending_payment before the cron worker cancels it.
	PendingPaymentTTL     time.Duration `envconfig:"PROPSHARE_PENDING_PAYMENT_TTL" default:"72h"`
	NotificationRetention time.Duration `envconfig:"PROPSHARE_NOTIFICATION_RETENTION" default:"720h"`
}
