package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DOCKHOUSE_ADDR.
const EnvPrefix = "DOCKHOUSE"

// Config holds everything the server needs at startup.
type Config struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Socket          string        `mapstructure:"socket" validate:"required"`
	StrictStatus    bool          `mapstructure:"strict-status"`
	LogLevel        string        `mapstructure:"log-level" validate:"oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log-format" validate:"oneof=text json"`
	PingTimeout     time.Duration `mapstructure:"ping-timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout" validate:"gt=0"`
}

// Defaults mirror a stock single-host install.
var Defaults = Config{
	Addr:            ":8000",
	Socket:          "/var/run/docker.sock",
	LogLevel:        "info",
	LogFormat:       "text",
	PingTimeout:     5 * time.Second,
	ShutdownTimeout: 10 * time.Second,
}

var validate = validator.New()

// RegisterFlags declares one flag per setting on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", Defaults.Addr, "address the HTTP API listens on")
	fs.String("socket", Defaults.Socket, "path of the Docker daemon's unix socket")
	fs.Bool("strict-status", Defaults.StrictStatus, "map failures to 400/404/409/503 instead of a blanket 500")
	fs.String("log-level", Defaults.LogLevel, "log level (debug, info, warn, error)")
	fs.String("log-format", Defaults.LogFormat, "log format (text, json)")
	fs.Duration("ping-timeout", Defaults.PingTimeout, "how long to wait for the daemon at startup")
	fs.Duration("shutdown-timeout", Defaults.ShutdownTimeout, "how long to drain requests on shutdown")
	fs.String("config", "", "optional config file (yaml, json or toml)")
}

// Load merges flags, DOCKHOUSE_* variables and the optional config file, in that order of precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that the socket is a local absolute path.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("invalid config: %s failed %s validation", e.Field(), e.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if strings.Contains(c.Socket, "://") || !filepath.IsAbs(c.Socket) {
		return fmt.Errorf("invalid config: socket must be an absolute filesystem path, got %q", c.Socket)
	}
	return nil
}
