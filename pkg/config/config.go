package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix shared by every DukaPOS environment variable.
const EnvPrefix = "dukapos"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"DUKAPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"DUKAPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DUKAPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DUKAPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"DUKAPOS_DB_DSN"`

	Host     string `envconfig:"DUKAPOS_DB_HOST"`
	Port     int    `envconfig:"DUKAPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"DUKAPOS_DB_USER"`
	Password string `envconfig:"DUKAPOS_DB_PASSWORD"`
	Name     string `envconfig:"DUKAPOS_DB_NAME"`
	SSLMode  string `envconfig:"DUKAPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DUKAPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DUKAPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DUKAPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DUKAPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DUKAPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DUKAPOS_REDIS_ADDR"`
	Password     string        `envconfig:"DUKAPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"DUKAPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DUKAPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DUKAPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DUKAPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DUKAPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DUKAPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DUKAPOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DUKAPOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DUKAPOS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DUKAPOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DUKAPOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DUKAPOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DUKAPOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DUKAPOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DUKAPOS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DUKAPOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DUKAPOS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DUKAPOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DUKAPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for envName, value := range map[string]string{
		"DUKAPOS_DB_HOST": db.Host,
		"DUKAPOS_DB_USER": db.User,
		"DUKAPOS_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, envName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either DUKAPOS_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
