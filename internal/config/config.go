package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// StoreConfig 记录存储配置
type StoreConfig struct {
	Driver          string `mapstructure:"driver"` // sqlite / workbook
	WorkbookPath    string `mapstructure:"workbook_path"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

type SessionConfig struct {
	Secret        string `mapstructure:"secret"`
	IdleMinutes   int    `mapstructure:"idle_minutes"`
	DefaultLocale string `mapstructure:"default_locale"`
}

type ExportConfig struct {
	FontPath     string `mapstructure:"font_path"`
	PreviewLimit int    `mapstructure:"preview_limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json / text
	Output string `mapstructure:"output"` // stdout / file / both
	File   string `mapstructure:"file"`
}

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Store    StoreConfig    `mapstructure:"store"`
	Session  SessionConfig  `mapstructure:"session"`
	Export   ExportConfig   `mapstructure:"export"`
	Log      LogConfig      `mapstructure:"log"`
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it looks for config.yaml in the working directory and
// falls back to defaults when none is found.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// environment overrides, e.g. QA_SERVER_PORT=9000
	v.SetEnvPrefix("QA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.path", "./data/quality.db")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.workbook_path", "./data/quality_records.xlsx")
	v.SetDefault("store.cache_ttl_seconds", 60)

	v.SetDefault("session.secret", "quality-audit-dev-secret")
	v.SetDefault("session.idle_minutes", 240)
	v.SetDefault("session.default_locale", "zh")

	v.SetDefault("export.font_path", "./fonts/NotoSansSC-Regular.ttf")
	v.SetDefault("export.preview_limit", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "./logs/quality-audit.log")
}
