package config

import (
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the environment-specific fallback when no API base URL
// is configured.
const DefaultBaseURL = "https://gudangku-ai.onrender.com"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type AuthConfig struct {
	URL      string `mapstructure:"url"`
	ClientID string `mapstructure:"client_id"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Path string `mapstructure:"path"`
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.API,
		validation.Field(&c.API.BaseURL, validation.Required, is.URL),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Auth,
		validation.Field(&c.Auth.URL, validation.Required, is.URL),
		validation.Field(&c.Auth.ClientID, validation.Required),
	)
}

// Load reads configuration from the given file (optional), environment
// variables prefixed with WARDECK_, and built-in defaults, in that
// order of increasing precedence for env vars.
func Load(path string) (*Config, error) {
	v := viper.New()

	dataDir := defaultDataDir()
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("auth.url", DefaultBaseURL+"/auth/v1")
	v.SetDefault("auth.client_id", "wardeck-cli")
	v.SetDefault("storage.path", filepath.Join(dataDir, "wardeck.db"))
	v.SetDefault("log.path", filepath.Join(dataDir, "wardeck.log"))

	v.SetEnvPrefix("WARDECK")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			// A missing default config file is fine, defaults apply.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if base := v.GetString("API_URL"); base != "" {
		cfg.API.BaseURL = base
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "wardeck")
	}
	return "."
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "wardeck")
	}
	return "."
}
