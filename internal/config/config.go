package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Debounce bounds for search inputs.
const (
	MinDebounce = 300 * time.Millisecond
	MaxDebounce = 500 * time.Millisecond
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Console  ConsoleConfig  `koanf:"console"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	DevAPI   DevAPIConfig   `koanf:"devapi"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host          string     `koanf:"host"`
	Port          int        `koanf:"port"`
	Mode          string     `koanf:"mode"`
	CSRFSecret    string     `koanf:"csrf_secret"`
	Timeout       string     `koanf:"timeout"`
	SecureCookies bool       `koanf:"secure_cookies"`
	CORS          CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// APIConfig describes the remote shop REST API the console talks to.
type APIConfig struct {
	BaseURL string `koanf:"base_url"`
	// Token is sent when the operator request carries no token of its own.
	Token   string `koanf:"token"`
	Timeout string `koanf:"timeout"`
}

// ConsoleConfig tunes the list and form screens.
type ConsoleConfig struct {
	Debounce         string            `koanf:"debounce"`
	DebounceByEntity map[string]string `koanf:"debounce_by_entity"`
	PageSize         int               `koanf:"page_size"`
	PageSizes        []int             `koanf:"page_sizes"`
	FetchTimeout     string            `koanf:"fetch_timeout"`
	SessionTTL       string            `koanf:"session_ttl"`
}

// DatabaseConfig holds database connection settings for the development API.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// DevAPIConfig configures the development stand-in for the shop REST API.
type DevAPIConfig struct {
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	UploadDir string `koanf:"upload_dir"`
	Seed      bool   `koanf:"seed"`
	// JWTSecret enables bearer token verification when set.
	JWTSecret string `koanf:"jwt_secret"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__API__BASE_URL=https://shop.example.com/api overrides api.base_url.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// APP__SERVER__PORT -> server.port
	// APP__DATABASE__POOL__MAX_IDLE_CONNS -> database.pool.max_idle_conns
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateConsole(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateDevAPI(); err != nil {
		return err
	}

	// Normalize optional duration fields: whitespace-only means unset.
	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)

	if t := c.Server.Timeout; t != "" {
		if _, err := positiveDuration("server.timeout", t); err != nil {
			return err
		}
	}
	if ma := c.Server.CORS.MaxAge; ma != "" {
		d, err := time.ParseDuration(ma)
		if err != nil {
			return fmt.Errorf("invalid server.cors.max_age %q: must be a valid duration (e.g. \"24h\", \"3600s\"): %w", c.Server.CORS.MaxAge, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid server.cors.max_age %q: must be greater than 0", c.Server.CORS.MaxAge)
		}
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

func (c *Config) validateAPI() error {
	base := strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if base == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.Server.Mode == gin.ReleaseMode && u.Scheme != "https" && !isLoopback(u.Hostname()) {
		return fmt.Errorf("invalid api.base_url %q: must use https in release mode", c.API.BaseURL)
	}
	c.API.BaseURL = base
	c.API.Token = strings.TrimSpace(c.API.Token)

	c.API.Timeout = strings.TrimSpace(c.API.Timeout)
	if c.API.Timeout == "" {
		c.API.Timeout = "10s"
	}
	if _, err := positiveDuration("api.timeout", c.API.Timeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConsole() error {
	cc := &c.Console

	cc.Debounce = strings.TrimSpace(cc.Debounce)
	if cc.Debounce == "" {
		cc.Debounce = "400ms"
	}
	if err := validateDebounce("console.debounce", cc.Debounce); err != nil {
		return err
	}
	for entity, v := range cc.DebounceByEntity {
		v = strings.TrimSpace(v)
		if err := validateDebounce("console.debounce_by_entity."+entity, v); err != nil {
			return err
		}
		cc.DebounceByEntity[entity] = v
	}

	if len(cc.PageSizes) == 0 {
		cc.PageSizes = []int{5, 10, 20, 50}
	}
	for i, n := range cc.PageSizes {
		if n <= 0 {
			return fmt.Errorf("invalid console.page_sizes[%d] %d: must be positive", i, n)
		}
	}
	slices.Sort(cc.PageSizes)
	cc.PageSizes = slices.Compact(cc.PageSizes)

	if cc.PageSize == 0 {
		cc.PageSize = 10
	}
	if !slices.Contains(cc.PageSizes, cc.PageSize) {
		return fmt.Errorf("invalid console.page_size %d: must be one of %v", cc.PageSize, cc.PageSizes)
	}

	cc.FetchTimeout = strings.TrimSpace(cc.FetchTimeout)
	if cc.FetchTimeout == "" {
		cc.FetchTimeout = "10s"
	}
	if _, err := positiveDuration("console.fetch_timeout", cc.FetchTimeout); err != nil {
		return err
	}

	cc.SessionTTL = strings.TrimSpace(cc.SessionTTL)
	if cc.SessionTTL == "" {
		cc.SessionTTL = "2h"
	}
	if _, err := positiveDuration("console.session_ttl", cc.SessionTTL); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	if c.Database.Driver == "sqlite" {
		sqlitePath := strings.TrimSpace(c.Database.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = sqlitePath
	}

	if c.Database.Driver == "postgres" {
		host := strings.TrimSpace(c.Database.Postgres.Host)
		if host == "" {
			return fmt.Errorf("database.postgres.host is required when driver is postgres")
		}
		if c.Database.Postgres.Port < 1 || c.Database.Postgres.Port > 65535 {
			return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", c.Database.Postgres.Port)
		}
		user := strings.TrimSpace(c.Database.Postgres.User)
		if user == "" {
			return fmt.Errorf("database.postgres.user is required when driver is postgres")
		}
		dbName := strings.TrimSpace(c.Database.Postgres.DBName)
		if dbName == "" {
			return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
		}
		sslMode := strings.TrimSpace(c.Database.Postgres.SSLMode)

		switch sslMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", c.Database.Postgres.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
		if c.Server.Mode == gin.ReleaseMode {
			switch sslMode {
			case "require", "verify-ca", "verify-full":
			default:
				return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", c.Database.Postgres.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
			}
		}

		c.Database.Postgres.Host = host
		c.Database.Postgres.User = user
		c.Database.Postgres.DBName = dbName
		c.Database.Postgres.SSLMode = sslMode
	}

	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)
	if lm := c.Database.Pool.ConnMaxLifetime; lm != "" {
		if _, err := positiveDuration("database.pool.conn_max_lifetime", lm); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDevAPI() error {
	d := &c.DevAPI
	d.Host = strings.TrimSpace(d.Host)
	if d.Host == "" {
		d.Host = "127.0.0.1"
	}
	if d.Port == 0 {
		d.Port = 8081
	}
	if d.Port < 1 || d.Port > 65535 {
		return fmt.Errorf("invalid devapi.port %d: must be between 1 and 65535", d.Port)
	}
	if d.Port == c.Server.Port && d.Host == c.Server.Host {
		return fmt.Errorf("devapi.port %d collides with server.port", d.Port)
	}
	d.UploadDir = strings.TrimSpace(d.UploadDir)
	if d.UploadDir == "" {
		d.UploadDir = "data/uploads"
	}
	d.JWTSecret = strings.TrimSpace(d.JWTSecret)
	if d.JWTSecret != "" {
		if len(d.JWTSecret) < 32 {
			return fmt.Errorf("invalid devapi.jwt_secret: must be at least 32 characters")
		}
		if c.Server.Mode == gin.ReleaseMode && CountSecretClasses(d.JWTSecret) < 3 {
			return fmt.Errorf("devapi.jwt_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
		}
	}
	return nil
}

// APITimeout returns api.timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	d, _ := time.ParseDuration(c.API.Timeout)
	return d
}

// DebounceFor returns the search quiet period for the named entity.
func (cc ConsoleConfig) DebounceFor(entity string) time.Duration {
	if v, ok := cc.DebounceByEntity[entity]; ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	d, err := time.ParseDuration(cc.Debounce)
	if err != nil {
		return 400 * time.Millisecond
	}
	return d
}

// FetchTimeoutDuration returns console.fetch_timeout as a duration.
func (cc ConsoleConfig) FetchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(cc.FetchTimeout)
	return d
}

// SessionTTLDuration returns console.session_ttl as a duration.
func (cc ConsoleConfig) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(cc.SessionTTL)
	return d
}

func validateDebounce(name, v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if d < MinDebounce || d > MaxDebounce {
		return fmt.Errorf("invalid %s %q: must be between %s and %s", name, v, MinDebounce, MaxDebounce)
	}
	return nil
}

func positiveDuration(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be greater than 0", name, v)
	}
	return d, nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	hasLower := false
	hasUpper := false
	hasDigit := false
	hasSymbol := false

	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	classes := 0
	for _, ok := range []bool{hasLower, hasUpper, hasDigit, hasSymbol} {
		if ok {
			classes++
		}
	}
	return classes
}
