package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/bytes"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr         string        `mapstructure:"listen_address"`
	LogLevel           string        `mapstructure:"log_level"`
	LogDB              string        `mapstructure:"log_db"` // bare names live in ~/.cryptovault
	CORSOrigins        []string      `mapstructure:"cors_origins"`
	BodyLimit          string        `mapstructure:"body_limit"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	CompressResponses  bool          `mapstructure:"compress_responses"`
	EnableManagement   bool          `mapstructure:"enable_management"`
	ManagementSocket   string        `mapstructure:"management_socket"` // bare names live in ~/.cryptovault
	ManagementPassword string        `mapstructure:"management_password"`
	ConfigFile         string        `mapstructure:"config_file"`
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddr:        ":8000",
		LogLevel:          "info",
		LogDB:             "cryptovault.db",
		CORSOrigins:       []string{"*"},
		BodyLimit:         "1M",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		CompressResponses: true,
		EnableManagement:  true,
		ManagementSocket:  "cryptovault.sock",
		ConfigFile:        "cryptovault",
	}
}

var ErrInvalidConfig = errors.New("invalid configuration")

// LoadConfig reads defaults, then the config file, then CRYPTOVAULT_* env
// variables. configFile may be a path or a bare name searched in ".",
// /etc/cryptovault and $HOME/.cryptovault; a missing bare-named file is not an
// error.
func LoadConfig(configFile string) (*Config, error) {
	return loadConfig(viper.New(), configFile)
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	cfg := DefaultConfig()
	if configFile == "" {
		configFile = cfg.ConfigFile
	}
	setDefaults(v, cfg)

	explicit := strings.ContainsAny(configFile, `/\`) || strings.HasSuffix(configFile, ".yaml") || strings.HasSuffix(configFile, ".yml")
	if explicit {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cryptovault/")
		v.AddConfigPath("$HOME/.cryptovault")
	}
	v.SetEnvPrefix("CRYPTOVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = configFile
	if used := v.ConfigFileUsed(); used != "" {
		cfg.ConfigFile = used
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("listen_address", cfg.ListenAddr)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_db", cfg.LogDB)
	v.SetDefault("cors_origins", cfg.CORSOrigins)
	v.SetDefault("body_limit", cfg.BodyLimit)
	v.SetDefault("read_timeout", cfg.ReadTimeout)
	v.SetDefault("write_timeout", cfg.WriteTimeout)
	v.SetDefault("shutdown_timeout", cfg.ShutdownTimeout)
	v.SetDefault("compress_responses", cfg.CompressResponses)
	v.SetDefault("enable_management", cfg.EnableManagement)
	v.SetDefault("management_socket", cfg.ManagementSocket)
	v.SetDefault("management_password", cfg.ManagementPassword)
}

func (c *Config) Validate() error {
	switch {
	case c.ListenAddr == "":
		return fmt.Errorf("%w: listen_address is empty", ErrInvalidConfig)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	case c.EnableManagement && c.ManagementSocket == "":
		return fmt.Errorf("%w: management_socket is empty", ErrInvalidConfig)
	}
	if _, err := bytes.Parse(c.BodyLimit); err != nil {
		return fmt.Errorf("%w: body_limit %q: %v", ErrInvalidConfig, c.BodyLimit, err)
	}
	return nil
}
