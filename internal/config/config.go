// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/unclebandit/adcraft/internal/db"
	"github.com/unclebandit/adcraft/internal/generator"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port     string         `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	LogDev   bool           `yaml:"log_dev"`
	AI       AIConfig       `yaml:"ai"`
	Storage  StorageConfig  `yaml:"storage"`
	Queue    QueueConfig    `yaml:"queue"`
	Generate GenerateConfig `yaml:"generate"`
}

type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
}

// QueueConfig selects the event transport. An empty AMQPURL keeps events
// in process.
type QueueConfig struct {
	AMQPURL string `yaml:"amqp_url"`
}

type GenerateConfig struct {
	// RatePerMinute bounds outbound AI calls; 0 disables the limit.
	RatePerMinute int `yaml:"rate_per_minute"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		AI: AIConfig{
			Provider: generator.ProviderGemini,
		},
		Storage: StorageConfig{
			Driver:     StorageSQLite,
			SQLitePath: "adcraft.db",
			DBHost:     "localhost",
			DBPort:     "5432",
		},
		Generate: GenerateConfig{
			RatePerMinute: 10,
		},
	}
}

// Load layers defaults, the optional YAML file at path, and the environment
// (a .env file is read first when present).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	// missing .env is fine, the OS environment still applies
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.AI.Provider, "AI_PROVIDER")
	setString(&cfg.AI.Model, "AI_MODEL")
	setString(&cfg.AI.APIKey, "API_KEY")
	setString(&cfg.AI.APIKey, "AI_API_KEY")
	setString(&cfg.AI.BaseURL, "AI_BASE_URL")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Storage.DBUser, "DB_USER")
	setString(&cfg.Storage.DBPassword, "DB_PASSWORD")
	setString(&cfg.Storage.DBHost, "DB_HOST")
	setString(&cfg.Storage.DBPort, "DB_PORT")
	setString(&cfg.Storage.DBName, "DB_NAME")
	setString(&cfg.Queue.AMQPURL, "AMQP_URL")

	if v := os.Getenv("LOG_DEV"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_DEV: %w", err)
		}
		cfg.LogDev = b
	}
	if v := os.Getenv("GENERATE_RATE_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GENERATE_RATE_PER_MIN: %w", err)
		}
		cfg.Generate.RatePerMinute = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	switch c.AI.Provider {
	case generator.ProviderGemini, generator.ProviderOpenAI, generator.ProviderMock:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AI.Provider)
	}
	switch c.Storage.Driver {
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for sqlite storage")
		}
	case StoragePostgres:
		if c.Storage.DBName == "" {
			return errors.New("DB_NAME is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Generate.RatePerMinute < 0 {
		return errors.New("GENERATE_RATE_PER_MIN must not be negative")
	}
	return nil
}

func (c Config) LLMSettings() generator.LLMSettings {
	return generator.LLMSettings{
		Provider: c.AI.Provider,
		Model:    c.AI.Model,
		APIKey:   c.AI.APIKey,
		BaseURL:  c.AI.BaseURL,
	}
}

// DSN returns the database/sql driver name and connection string for the
// configured storage. Memory storage has none.
func (c Config) DSN() (driver, dsn string) {
	switch c.Storage.Driver {
	case StoragePostgres:
		s := c.Storage
		return db.DriverPostgres, db.PostgresDSN(s.DBUser, s.DBPassword, s.DBHost, s.DBPort, s.DBName)
	case StorageSQLite:
		return db.DriverSQLite, db.SQLiteDSN(c.Storage.SQLitePath)
	default:
		return "", ""
	}
}
