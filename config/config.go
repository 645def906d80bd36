package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	AdsLibrary AdsLibraryConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Matching   MatchingConfig
	Alerts     AlertsConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// AdsLibraryConfig holds Meta Ad Library API configuration.
type AdsLibraryConfig struct {
	AccessToken     string `mapstructure:"access_token"`
	BaseURL         string `mapstructure:"base_url"`
	ReachedCountry  string `mapstructure:"reached_country"`
	MaxAds          int    `mapstructure:"max_ads"`
	RequestsPerHour int    `mapstructure:"requests_per_hour"`
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// MatchingConfig holds product-ad matching weights and thresholds.
// Zero values fall back to the engine defaults.
type MatchingConfig struct {
	URLMatchWeight          float64 `mapstructure:"url_match_weight"`
	HandleMatchWeight       float64 `mapstructure:"handle_match_weight"`
	TextSimilarityWeight    float64 `mapstructure:"text_similarity_weight"`
	TextSimilarityThreshold float64 `mapstructure:"text_similarity_threshold"`
	MinScoreThreshold       float64 `mapstructure:"min_score_threshold"`
	MaxProducts             int     `mapstructure:"max_products"`
}

// AlertsConfig holds alert detection thresholds.
type AlertsConfig struct {
	ScoreChangeThreshold float64 `mapstructure:"score_change_threshold"`
	AdsBoostRatio        float64 `mapstructure:"ads_boost_ratio"`
	ListLimit            int     `mapstructure:"list_limit"`
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopradar/")

	v.SetEnvPrefix("SHOPRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a
// default, even an empty one: viper only binds environment variables
// for keys it already knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)

	v.SetDefault("adslibrary.access_token", "")
	v.SetDefault("adslibrary.base_url", "https://graph.facebook.com/v21.0")
	v.SetDefault("adslibrary.reached_country", "US")
	v.SetDefault("adslibrary.max_ads", 1000)
	v.SetDefault("adslibrary.requests_per_hour", 200)

	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("matching.url_match_weight", 0.0)
	v.SetDefault("matching.handle_match_weight", 0.0)
	v.SetDefault("matching.text_similarity_weight", 0.0)
	v.SetDefault("matching.text_similarity_threshold", 0.0)
	v.SetDefault("matching.min_score_threshold", 0.0)
	v.SetDefault("matching.max_products", 500)

	v.SetDefault("alerts.score_change_threshold", 0.0)
	v.SetDefault("alerts.ads_boost_ratio", 0.0)
	v.SetDefault("alerts.list_limit", 50)
}

// validate validates the configuration.
func validate(config *Config) error {
	if config.Database.URL == "" {
		return fmt.Errorf("database URL is required (set SHOPRADAR_DATABASE_URL)")
	}

	if config.Server.Environment != "development" && config.Server.Environment != "production" {
		return fmt.Errorf("environment must be 'development' or 'production', got: %s", config.Server.Environment)
	}

	if config.Matching.MinScoreThreshold < 0 || config.Matching.MinScoreThreshold > 1 {
		return fmt.Errorf("matching min_score_threshold must be within [0, 1], got: %v", config.Matching.MinScoreThreshold)
	}

	return nil
}
