package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
	OAuth2   OAuth2Config   `mapstructure:"oauth2"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                int    `mapstructure:"port"                  validate:"required,gt=0,lt=65536"`
	LogLevel            string `mapstructure:"log_level"             validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"  validate:"gt=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gt=0"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds"  validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0,lt=1441"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,gtfield=TokenLifetimeMinutes"`
	VerificationCodeTTLMinutes  int    `mapstructure:"verification_code_ttl_minutes"  validate:"required,gt=0,lt=1441"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"required,gte=4,lte=31"`
}

// RedisConfig contains the connection settings for the ephemeral cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"     validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       validate:"gte=0,lte=15"`
}

// OAuth2Config contains settings for social login providers.
// Providers are keyed by provider identifier (e.g. "google").
type OAuth2Config struct {
	HTTPTimeoutSeconds int                       `mapstructure:"http_timeout_seconds" validate:"required,gt=0,lte=60"`
	Providers          map[string]ProviderConfig `mapstructure:"providers"            validate:"required,min=1,dive"`
}

// ProviderConfig holds the client registration of a single OAuth2 provider.
type ProviderConfig struct {
	ClientID     string `mapstructure:"client_id"     validate:"required"`
	ClientSecret string `mapstructure:"client_secret" validate:"required"`
	RedirectURI  string `mapstructure:"redirect_uri"  validate:"required,url"`
	TokenURI     string `mapstructure:"token_uri"     validate:"required,url"`
	ResourceURI  string `mapstructure:"resource_uri"  validate:"required,url"`
}
