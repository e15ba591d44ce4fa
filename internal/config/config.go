// Package config loads smartmemo settings from defaults, an optional config
// file, SMARTMEMO_ environment variables and command line overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SMARTMEMO_STORE_PATH.
const EnvPrefix = "SMARTMEMO"

// Config holds all application configuration.
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Slack    SlackConfig    `mapstructure:"slack"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres memory"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required_if=Driver postgres"`
}

// NotifyConfig selects where triggers are kept. The sql center shares the
// store's database.
type NotifyConfig struct {
	Center string `mapstructure:"center" validate:"required,oneof=sql memory"`
}

type DispatchConfig struct {
	Tick time.Duration `mapstructure:"tick" validate:"min=1s"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=console json"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id" validate:"required_with=Token"`
}

type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url" validate:"omitempty,url"`
}

// DefaultDBPath is ~/.smartmemo/smartmemo.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".smartmemo", "smartmemo.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", DefaultDBPath())
	v.SetDefault("store.dsn", "")
	v.SetDefault("notify.center", "sql")
	v.SetDefault("dispatch.tick", "20s")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("slack.webhook_url", "")
}

// Load builds a validated Config. path names an optional config file whose
// format follows its extension; overrides win over every other source and
// are keyed like "store.path".
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal configuration")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, goerr.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}
