package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Catalog CatalogConfig `toml:"catalog"`
	Storage StorageConfig `toml:"storage"`
	CORS    CORSConfig    `toml:"cors"`
	Logging LoggingConfig `toml:"logging"`
	Routes  RoutesConfig  `toml:"routes"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig holds the music catalog credentials and endpoints
type CatalogConfig struct {
	ClientID     string        `toml:"client_id"`
	ClientSecret string        `toml:"client_secret"`
	TokenURL     string        `toml:"token_url"`
	APIURL       string        `toml:"api_url"`
	Timeout      time.Duration `toml:"timeout"`
}

// StorageConfig selects and configures the playlist store
type StorageConfig struct {
	Driver   string         `toml:"driver"`
	Postgres PostgresConfig `toml:"postgres"`
	Mongo    MongoConfig    `toml:"mongo"`
	SQLite   SQLiteConfig   `toml:"sqlite"`
}

// PostgresConfig holds database connection settings
type PostgresConfig struct {
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

// DSN returns URL when set, otherwise a URL assembled from the parts. It is
// empty when the parts are incomplete.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	if p.Host == "" || p.User == "" || p.Name == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}

// MongoConfig holds document store settings
type MongoConfig struct {
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	Host       string `toml:"host"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// SQLiteConfig holds the embedded database location
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, text
}

// RoutesConfig holds inbound path templates
type RoutesConfig struct {
	GeneratePlaylist string `toml:"generate_playlist"`
}

// Default returns the configuration used before any file or environment
// overrides are applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Catalog: CatalogConfig{
			TokenURL: "https://accounts.spotify.com/api/token",
			APIURL:   "https://api.spotify.com",
			Timeout:  30 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverMongo,
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
			Mongo: MongoConfig{
				Host:       "localhost:27017",
				Database:   "moodplaylist",
				Collection: "playlists",
			},
			SQLite: SQLiteConfig{Path: "moodplaylist.db"},
		},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Routes:  RoutesConfig{GeneratePlaylist: "/playlists/{mood}"},
	}
}

// Load reads and validates configuration.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Read assembles configuration from defaults, an optional TOML file named by
// CONFIG_FILE and environment variables, in that order of precedence. A .env
// file in the working directory is loaded first when present.
func Read() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var problems []string

	setString(&c.Server.Host, "HOST")
	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		problems = append(problems, err.Error())
	}

	setString(&c.Catalog.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Catalog.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Catalog.TokenURL, "SPOTIFY_TOKEN_URL")
	setString(&c.Catalog.APIURL, "SPOTIFY_API_URL")
	if raw := os.Getenv("CATALOG_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid CATALOG_TIMEOUT: %v", err))
		} else {
			c.Catalog.Timeout = d
		}
	}

	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))

	setString(&c.Storage.Postgres.URL, "DATABASE_URL")
	setString(&c.Storage.Postgres.Host, "DB_HOST")
	setString(&c.Storage.Postgres.User, "DB_USER")
	setString(&c.Storage.Postgres.Password, "DB_PASSWORD")
	setString(&c.Storage.Postgres.Name, "DB_NAME")
	setString(&c.Storage.Postgres.SSLMode, "DB_SSLMODE")
	if err := setInt(&c.Storage.Postgres.Port, "DB_PORT"); err != nil {
		problems = append(problems, err.Error())
	}

	setString(&c.Storage.Mongo.Username, "MONGO_USERNAME")
	setString(&c.Storage.Mongo.Password, "MONGO_PASSWORD")
	setString(&c.Storage.Mongo.Host, "MONGO_HOST")
	setString(&c.Storage.Mongo.Database, "MONGO_DATABASE")
	setString(&c.Storage.Mongo.Collection, "MONGO_COLLECTION")

	setString(&c.Storage.SQLite.Path, "SQLITE_PATH")

	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		c.CORS.AllowedOrigins = splitList(raw)
	}

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")

	setString(&c.Routes.GeneratePlaylist, "PLAYLIST_ROUTE")

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	if c.Catalog.ClientID == "" {
		errors = append(errors, "SPOTIFY_CLIENT_ID is required")
	}
	if c.Catalog.ClientSecret == "" {
		errors = append(errors, "SPOTIFY_CLIENT_SECRET is required")
	}
	if c.Catalog.Timeout <= 0 {
		errors = append(errors, "CATALOG_TIMEOUT must be positive")
	}

	errors = append(errors, c.storageProblems()...)

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	route := c.Routes.GeneratePlaylist
	if !strings.HasPrefix(route, "/") || !strings.Contains(route, "{mood}") {
		errors = append(errors, "PLAYLIST_ROUTE must start with / and contain {mood}")
	}

	return joinProblems(errors)
}

// ValidateStorage checks only the storage section, for commands that never
// reach the catalog.
func (c *Config) ValidateStorage() error {
	return joinProblems(c.storageProblems())
}

func (c *Config) storageProblems() []string {
	var problems []string

	switch c.Storage.Driver {
	case DriverMongo:
		if c.Storage.Mongo.Host == "" || c.Storage.Mongo.Database == "" || c.Storage.Mongo.Collection == "" {
			problems = append(problems, "MONGO_HOST, MONGO_DATABASE and MONGO_COLLECTION are required for the mongo driver")
		}
	case DriverPostgres:
		if c.Storage.Postgres.DSN() == "" {
			problems = append(problems, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
		}
	case DriverSQLite:
		if c.Storage.SQLite.Path == "" {
			problems = append(problems, "SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		problems = append(problems, "STORAGE_DRIVER must be one of: mongo, postgres, sqlite, memory")
	}

	return problems
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
