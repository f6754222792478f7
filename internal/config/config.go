package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PUNCHLIST"

type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Client ClientConfig `yaml:"client" mapstructure:"client"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ClientConfig configures the terminal client. BaseURL prefixes every request.
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Path: "./database.sqlite",
		},
		Client: ClientConfig{
			BaseURL:        "http://localhost:3000",
			RequestTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load merges defaults, an optional YAML file and PUNCHLIST_* environment
// variables, in increasing precedence. Nested keys map to env names with
// underscores, e.g. client.base_url -> PUNCHLIST_CLIENT_BASE_URL.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("client.base_url", d.Client.BaseURL)
	v.SetDefault("client.request_timeout", d.Client.RequestTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("config: store.path is required")
	}
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: client.base_url %q is not an absolute URL", c.Client.BaseURL)
	}
	if c.Client.RequestTimeout <= 0 {
		return errors.New("config: client.request_timeout must be positive")
	}
	return nil
}
