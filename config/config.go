// Package config loads service configuration and sets up logging.
//
// Sources, lowest precedence first: built-in defaults, config.yaml in the
// working directory, a .env file, then BONUSPLAN_* environment variables
// (BONUSPLAN_SERVER_PORT overrides server.port).
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BONUSPLAN"

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Benchmarks BenchmarksConfig `yaml:"benchmarks" mapstructure:"benchmarks"`
	Policy     PolicyConfig     `yaml:"policy" mapstructure:"policy"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// StoreConfig configures persistence. An empty path keeps everything in
// memory.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BenchmarksConfig points at a custom benchmark CSV. Empty means the
// embedded catalog.
type BenchmarksConfig struct {
	CSVPath string `yaml:"csv_path" mapstructure:"csv_path"`
}

// PolicyConfig selects the default plan policy: a preset ID or a path to
// a JSON/YAML policy document.
type PolicyConfig struct {
	Default string `yaml:"default" mapstructure:"default"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads config.yaml and .env from dir, then the environment.
func LoadFrom(dir string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load(strings.TrimSuffix(dir, "/") + "/.env")

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("store.path", "bonusplan.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("benchmarks.csv_path", "")
	v.SetDefault("policy.default", "standard")
	v.SetDefault("policy.path", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// NewLogger builds a logger without installing it.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}
