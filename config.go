package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported catalog storage backends.
const (
	FileBackend  = "file"
	BoltBackend  = "bolt"
	RedisBackend = "redis"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"LIBT_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"LIBT_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"LIBT_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"LIBT_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"LIBT_LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" envconfig:"LIBT_LOG_FILE"`
	Storage      StorageConfig `yaml:"storage"`
	Redis        RedisConfig   `yaml:"redis"`
	BoltDB       BoltDBConfig  `yaml:"boltdb"`
}

// StorageConfig selects the catalog storage backend. The file backend
// keeps the whole catalog in a single json snapshot file.
type StorageConfig struct {
	Backend  string `yaml:"backend" envconfig:"LIBT_STORAGE_BACKEND"`
	FilePath string `yaml:"filepath" envconfig:"LIBT_STORAGE_FILE_PATH"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"LIBT_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"LIBT_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"LIBT_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"LIBT_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"LIBT_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"LIBT_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"LIBT_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"LIBT_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"LIBT_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"LIBT_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"LIBT_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"LIBT_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"LIBT_BOLTDB_BUCKET_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
// A missing configuration file is not an error: the tracker starts with defaults
// so it stays usable out of the box.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.LogFile) == 0 {
		config.LogFile = "logs/library.log"
	}

	if len(config.Storage.Backend) == 0 {
		config.Storage.Backend = FileBackend
	}

	if len(config.Storage.FilePath) == 0 {
		config.Storage.FilePath = "library_data.json"
	}

	if len(config.BoltDB.FilePath) == 0 {
		config.BoltDB.FilePath = "library_data.db"
	}

	if config.BoltDB.Timeout == 0 {
		config.BoltDB.Timeout = 3 * time.Second
	}

	if len(config.BoltDB.BucketName) == 0 {
		config.BoltDB.BucketName = "books"
	}

	switch config.Storage.Backend {
	case FileBackend, BoltBackend:
	case RedisBackend:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage backend in configuration file: %q", config.Storage.Backend)
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration. The env file is optional.
	err = godotenv.Load("./config.env")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `LIBT`.
	err = LoadConfigEnvs("LIBT", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
