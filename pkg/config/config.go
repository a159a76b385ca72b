package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Expiry       ExpiryConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"FOODWASTE_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODWASTE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FOODWASTE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODWASTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FOODWASTE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FOODWASTE_DB_DSN"`
	Driver string `envconfig:"FOODWASTE_DB_DRIVER" default:"sqlite"`

	Host     string `envconfig:"FOODWASTE_DB_HOST"`
	Port     int    `envconfig:"FOODWASTE_DB_PORT" default:"5432"`
	User     string `envconfig:"FOODWASTE_DB_USER"`
	Password string `envconfig:"FOODWASTE_DB_PASSWORD"`
	Name     string `envconfig:"FOODWASTE_DB_NAME"`
	SSLMode  string `envconfig:"FOODWASTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODWASTE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"FOODWASTE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"FOODWASTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODWASTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets a local sqlite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODWASTE_REDIS_URL"`
	Address      string        `envconfig:"FOODWASTE_REDIS_ADDR"`
	Password     string        `envconfig:"FOODWASTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODWASTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODWASTE_REDIS_POOL_SIZE" default:"5"`
	MinIdleConns int           `envconfig:"FOODWASTE_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"FOODWASTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODWASTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODWASTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ExpiryConfig controls when the Available -> Expired sweep runs.
type ExpiryConfig struct {
	Interval      time.Duration `envconfig:"FOODWASTE_EXPIRY_INTERVAL" default:"1h"`
	RefreshOnRead bool          `envconfig:"FOODWASTE_EXPIRY_REFRESH_ON_READ" default:"true"`
	LockTTL       time.Duration `envconfig:"FOODWASTE_EXPIRY_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOODWASTE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case DBDriverSQLite:
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	case DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported %s %q (expected %s or %s)", EnvDBDriver, db.Driver, DBDriverSQLite, DBDriverPostgres)
	}

	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range postgresDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
