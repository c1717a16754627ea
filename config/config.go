package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Persistence
	Storage StorageConfig

	// Sync client (cmd/leaflet)
	Client ClientConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	RateLimitPerMin int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool

	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const (
	StorageDriverJSONFile = "jsonfile"
	StorageDriverSQLite   = "sqlite"
	StorageDriverRedis    = "redis"
)

type StorageConfig struct {
	Driver  string
	DataDir string
	SQLite  SQLiteConfig
	Redis   RedisConfig
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type ClientConfig struct {
	ServerURL         string
	CachePath         string
	Timeout           time.Duration
	ReconcileInterval time.Duration
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/leaflet/
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/leaflet/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return fromViper(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// The bare PORT variable wins, as most hosting platforms set it.
	if err := v.BindEnv("http_server.port", "PORT", "HTTP_SERVER_PORT"); err != nil {
		return nil, fmt.Errorf("bind PORT: %w", err)
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.RateLimitPerMin = v.GetInt("http_server.rate_limit_per_min")
	cfg.HTTPServer.ShutdownTimeout = v.GetDuration("http_server.shutdown_timeout")
	cfg.HTTPServer.AllowedOrigins = splitList(v.Get("http_server.allowed_origins"))

	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Logger.FilePath = v.GetString("logger.file_path")
	cfg.Logger.MaxSizeMB = v.GetInt("logger.max_size_mb")
	cfg.Logger.MaxBackups = v.GetInt("logger.max_backups")
	cfg.Logger.MaxAgeDays = v.GetInt("logger.max_age_days")

	// Storage
	cfg.Storage.Driver = v.GetString("storage.driver")
	cfg.Storage.DataDir = v.GetString("storage.data_dir")
	cfg.Storage.SQLite.Path = v.GetString("storage.sqlite.path")
	cfg.Storage.Redis.Addr = v.GetString("storage.redis.addr")
	cfg.Storage.Redis.Password = v.GetString("storage.redis.password")
	cfg.Storage.Redis.DB = v.GetInt("storage.redis.db")
	cfg.Storage.Redis.Prefix = v.GetString("storage.redis.prefix")

	// Client
	cfg.Client.ServerURL = v.GetString("client.server_url")
	cfg.Client.CachePath = v.GetString("client.cache_path")
	cfg.Client.Timeout = v.GetDuration("client.timeout")
	cfg.Client.ReconcileInterval = v.GetDuration("client.reconcile_interval")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 4000)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("http_server.rate_limit_per_min", 600)
	v.SetDefault("http_server.allowed_origins", "*")
	v.SetDefault("http_server.shutdown_timeout", "10s")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)

	v.SetDefault("storage.driver", StorageDriverJSONFile)
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.sqlite.path", "./data/leaflet.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.prefix", "leaflet")

	v.SetDefault("client.server_url", "http://localhost:4000")
	v.SetDefault("client.cache_path", "./data/client-cache.json")
	v.SetDefault("client.timeout", "5s")
	v.SetDefault("client.reconcile_interval", "30s")
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverJSONFile, StorageDriverSQLite, StorageDriverRedis:
	default:
		return fmt.Errorf("unknown storage.driver %q (want jsonfile, sqlite or redis)", c.Storage.Driver)
	}
	if c.HTTPServer.Port <= 0 || c.HTTPServer.Port > 65535 {
		return fmt.Errorf("http_server.port %d out of range", c.HTTPServer.Port)
	}
	if c.HTTPServer.RateLimitPerMin < 0 {
		return fmt.Errorf("http_server.rate_limit_per_min must not be negative")
	}
	return nil
}

// splitList accepts either a YAML list or a comma separated string, since
// env vars cannot carry arrays.
func splitList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []any:
		for _, p := range val {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
	case []string:
		parts = val
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
