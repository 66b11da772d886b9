package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server
	ServerPort string

	// Auth
	JWTSecret      string
	JWTExpiryHours int

	// Catalogue providers
	TMDBAPIKey string
	RAWGAPIKey string

	// Caching / jobs
	SearchCacheMinutes     int // Minutes search results are served from cache (default: 5)
	TrendingRefreshMinutes int // Minutes between trending ranking refreshes (default: 15)

	// Paths
	DatabaseFile string // $CONFIG_DIR/medialog.db
	BackupDir    string // $CONFIG_DIR/backups

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_EXPIRY_HOURS", 1)
	viper.SetDefault("SEARCH_CACHE_MINUTES", 5)
	viper.SetDefault("TRENDING_REFRESH_MINUTES", 15)
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "medialog")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Auth
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),

		// Catalogue providers
		TMDBAPIKey: viper.GetString("TMDB_API_KEY"),
		RAWGAPIKey: viper.GetString("RAWG_API_KEY"),

		// Caching / jobs
		SearchCacheMinutes:     viper.GetInt("SEARCH_CACHE_MINUTES"),
		TrendingRefreshMinutes: viper.GetInt("TRENDING_REFRESH_MINUTES"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "medialog.db"),
		BackupDir:    filepath.Join(configDir, "backups"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.RAWGAPIKey == "" {
		return nil, fmt.Errorf("RAWG_API_KEY is required")
	}
	if config.TrendingRefreshMinutes < 1 || config.TrendingRefreshMinutes > 59 {
		return nil, fmt.Errorf("TRENDING_REFRESH_MINUTES must be between 1 and 59")
	}

	return config, nil
}
