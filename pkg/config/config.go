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
	DB           DBConfig
	Matching     MatchingConfig
	Schedule     ScheduleConfig
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
	Env          string `envconfig:"SUPPLYBOT_APP_ENV" required:"true"`
	Port         string `envconfig:"SUPPLYBOT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUPPLYBOT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUPPLYBOT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SUPPLYBOT_DB_DSN"`
	Driver string `envconfig:"SUPPLYBOT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUPPLYBOT_DB_HOST"`
	LegacyPort     int    `envconfig:"SUPPLYBOT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUPPLYBOT_DB_USER"`
	LegacyPassword string `envconfig:"SUPPLYBOT_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUPPLYBOT_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUPPLYBOT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPPLYBOT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUPPLYBOT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUPPLYBOT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPPLYBOT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type MatchingConfig struct {
	SuggestionLimit   int `envconfig:"SUPPLYBOT_MATCHING_SUGGESTION_LIMIT" default:"5"`
	AutoCompleteLimit int `envconfig:"SUPPLYBOT_MATCHING_AUTOCOMPLETE_LIMIT" default:"8"`
}

type ScheduleConfig struct {
	// DefaultTimezone applies when a restaurant carries no timezone of its own.
	DefaultTimezone string `envconfig:"SUPPLYBOT_SCHEDULE_DEFAULT_TIMEZONE" default:"UTC"`
	DefaultSendHour int    `envconfig:"SUPPLYBOT_SCHEDULE_DEFAULT_SEND_HOUR" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SUPPLYBOT_AUTO_MIGRATE" default:"false"`
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
