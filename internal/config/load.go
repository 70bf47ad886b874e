package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TOPSTER"

// Google endpoints used when no explicit URIs are configured.
const (
	GoogleTokenURI    = "https://oauth2.googleapis.com/token"
	GoogleResourceURI = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// knownProviders lists provider identifiers whose settings can be supplied
// through environment variables. Other providers must come from a config file.
var knownProviders = []string{"google"}

var providerFields = []string{"client_id", "client_secret", "redirect_uri", "token_uri", "resource_uri"}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables: TOPSTER_SERVER_PORT, TOPSTER_OAUTH2_PROVIDERS_GOOGLE_CLIENT_ID, ...
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation over a loaded configuration.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.idle_timeout_seconds", 60)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 14*24*60)
	v.SetDefault("auth.verification_code_ttl_minutes", 5)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("oauth2.http_timeout_seconds", 10)
	v.SetDefault("oauth2.providers.google.token_uri", GoogleTokenURI)
	v.SetDefault("oauth2.providers.google.resource_uri", GoogleResourceURI)
}

// bindEnvs registers keys that AutomaticEnv cannot discover on its own:
// keys without defaults and the nested provider maps.
func bindEnvs(v *viper.Viper) error {
	keys := []string{
		"database.url",
		"auth.jwt_secret",
		"redis.password",
	}
	for _, provider := range knownProviders {
		for _, field := range providerFields {
			keys = append(keys, "oauth2.providers."+provider+"."+field)
		}
	}

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}
	return nil
}
