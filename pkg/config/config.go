package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Store driver selectors.
const (
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
)

type Config struct {
	App    AppConfig
	Store  StoreConfig
	Backup BackupConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NUKR_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"NUKR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NUKR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StoreConfig struct {
	Driver         string `envconfig:"NUKR_STORE_DRIVER" default:"file"`
	DataFile       string `envconfig:"NUKR_STORE_DATA_FILE" default:"nukr_data.json"`
	SQLiteDSN      string `envconfig:"NUKR_STORE_SQLITE_DSN" default:"nukr_data.db"`
	CurrencySymbol string `envconfig:"NUKR_CURRENCY_SYMBOL" default:"Rs."`
}

func (s StoreConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StoreDriverFile, StoreDriverSQLite:
		return nil
	default:
		return fmt.Errorf("unknown store driver %q (expected %s or %s)", s.Driver, StoreDriverFile, StoreDriverSQLite)
	}
}

type BackupConfig struct {
	Dir        string `envconfig:"NUKR_BACKUP_DIR" default:"backups"`
	MaxBackups int    `envconfig:"NUKR_MAX_BACKUPS" default:"15"`
}
