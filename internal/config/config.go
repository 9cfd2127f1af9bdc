package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `json:"server"`
	Database      DatabaseConfig      `json:"database"`
	Auth          AuthConfig          `json:"auth"`
	Storage       StorageConfig       `json:"storage"`
	Geocode       GeocodeConfig       `json:"geocode"`
	Cleanup       CleanupConfig       `json:"cleanup"`
	Notifications NotificationsConfig `json:"notifications"`
	Logging       LoggingConfig       `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	JWTSecret        string `json:"jwt_secret"`
	TokenExpireHours int    `json:"token_expire_hours"`
}

// StorageConfig holds S3 settings for pitch deck uploads
type StorageConfig struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// GeocodeConfig holds the geocoding provider settings
type GeocodeConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// CleanupConfig controls the abandoned-draft cleaner
type CleanupConfig struct {
	// StaleAfter is how old an empty questionnaire draft must be before
	// it is soft-deleted.
	StaleAfter time.Duration `json:"stale_after"`
	// CronSpec drives the standalone cleanup worker.
	CronSpec string `json:"cron_spec"`
}

// NotificationsConfig configures outbound notification channels
type NotificationsConfig struct {
	EmailFrom    string `json:"email_from"`
	EmailEnabled bool   `json:"email_enabled"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "pitchside_marketplace",
			SSLMode: "disable",
		},
		Auth: AuthConfig{
			TokenExpireHours: 24,
		},
		Geocode: GeocodeConfig{
			BaseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		},
		Cleanup: CleanupConfig{
			StaleAfter: time.Hour,
			CronSpec:   "0 0 * * * *",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if region := os.Getenv("STORAGE_REGION"); region != "" {
		config.Storage.Region = region
	}
	if key := os.Getenv("GEOCODE_API_KEY"); key != "" {
		config.Geocode.APIKey = key
	}
	if url := os.Getenv("GEOCODE_BASE_URL"); url != "" {
		config.Geocode.BaseURL = url
	}
	if from := os.Getenv("NOTIFICATIONS_EMAIL_FROM"); from != "" {
		config.Notifications.EmailFrom = from
		config.Notifications.EmailEnabled = true
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
