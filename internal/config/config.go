// Package config собирает настройки из .env файла, переменных окружения и флагов.
// Флаги имеют приоритет над окружением.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Поддерживаемые хранилища
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// ErrInvalidConfig возвращается при некорректных настройках.
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Config хранит настройки приложения.
type Config struct {
	Storage       string `validate:"oneof=memory file postgres redis"`
	DataFile      string `validate:"required_if=Storage file"`
	PostgresDSN   string `validate:"required_if=Storage postgres"`
	RedisAddr     string `validate:"required_if=Storage redis"`
	RedisPassword string
	RedisDB       int    `validate:"gte=0"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	MetricsAddr   string `validate:"omitempty,hostname_port"`
	CatalogPath   string
}

// Default возвращает настройки по умолчанию.
func Default() Config {
	return Config{
		Storage:  StorageFile,
		DataFile: "wolfpedia.json",
		LogLevel: "info",
	}
}

type binding struct {
	flag string
	env  string
	set  func(string) error
}

// Load разбирает аргументы командной строки, загружает .env файл
// (его отсутствие не ошибка) и применяет переменные окружения
// для незаданных флагов.
func Load(args []string) (*Config, error) {
	cfg := Default()

	flags := pflag.NewFlagSet("wolfpedia", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "path to .env file")
	flags.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: memory, file, postgres or redis")
	flags.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "path to the data file of the file storage")
	flags.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "postgres connection string")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address host:port")
	flags.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "redis password")
	flags.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database number")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address of the /metrics endpoint, empty to disable")
	flags.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "path to a catalog JSON file, empty for the embedded one")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to load %s: %w", ErrInvalidConfig, *envFile, err)
	}

	str := func(dst *string) func(string) error {
		return func(v string) error {
			*dst = v
			return nil
		}
	}

	bindings := []binding{
		{flag: "storage", env: "WOLFPEDIA_STORAGE", set: str(&cfg.Storage)},
		{flag: "data-file", env: "WOLFPEDIA_DATA_FILE", set: str(&cfg.DataFile)},
		{flag: "postgres-dsn", env: "WOLFPEDIA_POSTGRES_DSN", set: str(&cfg.PostgresDSN)},
		{flag: "redis-addr", env: "WOLFPEDIA_REDIS_ADDR", set: str(&cfg.RedisAddr)},
		{flag: "redis-password", env: "WOLFPEDIA_REDIS_PASSWORD", set: str(&cfg.RedisPassword)},
		{flag: "redis-db", env: "WOLFPEDIA_REDIS_DB", set: func(v string) error {
			db, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("WOLFPEDIA_REDIS_DB must be a number: %w", err)
			}
			cfg.RedisDB = db
			return nil
		}},
		{flag: "log-level", env: "WOLFPEDIA_LOG_LEVEL", set: str(&cfg.LogLevel)},
		{flag: "metrics-addr", env: "WOLFPEDIA_METRICS_ADDR", set: str(&cfg.MetricsAddr)},
		{flag: "catalog", env: "WOLFPEDIA_CATALOG", set: str(&cfg.CatalogPath)},
	}

	for _, b := range bindings {
		if flags.Changed(b.flag) {
			continue
		}

		v, ok := os.LookupEnv(b.env)
		if !ok {
			continue
		}

		if err := b.set(v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
