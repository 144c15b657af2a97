package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	ArtworkDir                string        `koanf:"artwork_dir"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	JWTSecret                 string        `koanf:"jwt_secret"`
	LibraryFolders            []string      `koanf:"library_folders"`
	ScanCleaningBatchSize     int           `koanf:"scan_cleaning_batch_size"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	WorkerPollInterval        time.Duration `koanf:"worker_poll_interval"`
}

const (
	configFileENV = "CONFIG_FILE"
	envPrefix     = "CADENZA_"
)

// New loads configuration from defaults, an optional yaml file (CONFIG_FILE,
// falling back to ./config.yaml), and CADENZA_* environment variables, in
// that order of precedence.
func New() (*Config, error) {
	k := koanf.New(".")

	cfg := &Config{
		ArtworkDir:                "./tmp/artworks",
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseFilePath:          "./tmp/data.sqlite",
		DatabaseMaxRetries:        5,
		ScanCleaningBatchSize:     300,
		ServerHost:                "127.0.0.1",
		ServerPort:                4533,
		WorkerPollInterval:        5 * time.Second,
	}

	path := os.Getenv(configFileENV)
	if path == "" {
		path = "./config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.ScanCleaningBatchSize <= 0 {
		return errors.Errorf("scan_cleaning_batch_size must be positive, got %d", cfg.ScanCleaningBatchSize)
	}
	if cfg.DatabaseFilePath == "" {
		return errors.New("database_file_path must be set")
	}
	return nil
}
