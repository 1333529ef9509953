package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageBadger   = "badger"
)

// Config is read from .env, an optional config.yaml and the environment, in increasing priority.
type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	Storage  string `mapstructure:"STORAGE"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	JWTTTL     time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	SQLitePath string `mapstructure:"SQLITE_PATH"`
	BadgerPath string `mapstructure:"BADGER_PATH"`

	NATSURL           string `mapstructure:"NATS_URL"`
	NATSSubjectPrefix string `mapstructure:"NATS_SUBJECT_PREFIX"`

	SubscriberBuffer int `mapstructure:"SUBSCRIBER_BUFFER"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"HTTP_ADDR":           ":8080",
	"STORAGE":             StorageMemory,
	"JWT_SECRET":          "",
	"JWT_TTL":             "72h",
	"BCRYPT_COST":         10,
	"DB_HOST":             "localhost",
	"DB_USER":             "",
	"DB_PASSWORD":         "",
	"DB_NAME":             "",
	"DB_PORT":             "5432",
	"DB_SSLMODE":          "disable",
	"SQLITE_PATH":         "hackernews.db",
	"BADGER_PATH":         "./badger_data",
	"NATS_URL":            "",
	"NATS_SUBJECT_PREFIX": "hackernews",
	"SUBSCRIBER_BUFFER":   16,
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
}

// LoadEnv loads .env into the process environment when the file exists.
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		logrus.Debug(".env file not found")
	}
}

// Load reads configuration. dir is searched for config.yaml; an empty dir skips the file.
// Flags named after a key ("storage" for STORAGE, "http-addr" for HTTP_ADDR) override
// every other source when they are set on the command line.
func Load(dir string, flags ...*pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for _, fs := range flags {
		var bindErr error
		fs.VisitAll(func(f *pflag.Flag) {
			key := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if _, known := defaults[key]; known && bindErr == nil {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("unable to bind flags: %w", bindErr)
		}
	}

	if dir != "" {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}

	switch c.Storage {
	case StorageMemory, StorageBadger, StorageSQLite:
	case StoragePostgres:
		if c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage)
	}

	if c.SubscriberBuffer <= 0 {
		return fmt.Errorf("SUBSCRIBER_BUFFER must be positive, got %d", c.SubscriberBuffer)
	}
	return nil
}

// PostgresDSN formats the DB_* settings as a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
