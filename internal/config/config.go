package config

import (
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// DefaultProviderHost is the metadata provider used when none is configured.
const DefaultProviderHost = "snap-video3.p.rapidapi.com"

// DefaultRestrictedHosts are CDN domains whose bytes cannot be streamed and must be handed off.
var DefaultRestrictedHosts = []string{"tiktokcdn.com", "tokcdn.com", "instagram.com", "cdninstagram.com", "fbcdn.net"}

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Provider              struct {
		Host    string `mapstructure:"host"`
		APIKey  string `mapstructure:"api_key"`
		BaseURL string `mapstructure:"base_url"` // overrides https://<host>
	} `mapstructure:"provider"`
	Resolver struct {
		EnrichFromPage bool `mapstructure:"enrich_from_page"`
	} `mapstructure:"resolver"`
	Transfer struct {
		DownloadDir       string   `mapstructure:"download_dir"`
		RestrictedHosts   []string `mapstructure:"restricted_hosts"`
		VerifyDirect      bool     `mapstructure:"verify_direct"`
		SimulatedInterval string   `mapstructure:"simulated_interval"`
		SimulatedDuration string   `mapstructure:"simulated_duration"`
		Timeout           string   `mapstructure:"timeout"`
		// AllowPrivateNetworks lets media requests reach loopback, private and link-local addresses.
		AllowPrivateNetworks bool `mapstructure:"allow_private_networks"`
	} `mapstructure:"transfer"`
	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	HTTP struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"http"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	LogLevel string `mapstructure:"log_level"`
	Cache    struct {
		Provider string `mapstructure:"provider"` // "", "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of entries in the LRU cache
		TTL      string `mapstructure:"ttl"`      // Go duration string like "1h", "24h", etc.
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
	credentials  *Credentials
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	// Set the global log level
	zerolog.SetGlobalLevel(level)

	// Update logger with the configured level
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	credentials = NewCredentials(config.Provider.APIKey, config.Provider.Host)
	logger.Info().Msg("Configuration loaded successfully")
}

func setDefaults() {
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("provider.host", DefaultProviderHost)
	viper.SetDefault("transfer.download_dir", "./downloads")
	viper.SetDefault("transfer.restricted_hosts", DefaultRestrictedHosts)
	viper.SetDefault("transfer.verify_direct", true)
	viper.SetDefault("transfer.simulated_interval", "500ms")
	viper.SetDefault("transfer.simulated_duration", "2s")
	viper.SetDefault("transfer.timeout", "15m")
	viper.SetDefault("transfer.allow_private_networks", false)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "localhost")
	viper.SetDefault("http.port", 8081)
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)
	// Resolver caching is opt-in: an empty provider sends every Resolve to the metadata provider.
	viper.SetDefault("cache.provider", "")
	viper.SetDefault("cache.size", 500)
	viper.SetDefault("cache.ttl", "5m")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Add specific environment variable for log level
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	// Nested keys are only picked up from the environment when viper knows about them
	_ = viper.BindEnv("provider.api_key")
	_ = viper.BindEnv("sentry.dsn")

	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

// WatchCredentials reloads the provider key/host into the credential store whenever the
// config file changes on disk. It is a no-op when no config file was found.
func WatchCredentials() {
	if viper.ConfigFileUsed() == "" {
		logger.Debug().Msg("No config file in use, credential hot-reload disabled")
		return
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		key := viper.GetString("provider.api_key")
		host := viper.GetString("provider.host")
		credentials.Update(key, host)
		logger.Info().Str("file", e.Name).Str("host", host).Msg("Provider credentials reloaded")
	})
	viper.WatchConfig()
}

func GetConfig() *Config {
	return globalConfig
}

// GetCredentials returns the process-wide provider credential store.
func GetCredentials() *Credentials {
	return credentials
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// ParseDuration parses a Go duration string, logging and returning fallback when it is empty or invalid.
func ParseDuration(value string, fallback time.Duration, field string) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("field", field).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}
