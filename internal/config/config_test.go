package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const testYAML = `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
  csrf_secret: "test-csrf-secret-value"
api:
  base_url: "https://shop.example.com/api/"
  token: "  service-token  "
  timeout: "5s"
console:
  debounce: "350ms"
  debounce_by_entity:
    orders: "500ms"
  page_size: 5
  page_sizes: [20, 5, 10, 5]
  fetch_timeout: "8s"
  session_ttl: "30m"
database:
  driver: "postgres"
  sqlite:
    path: "data/test.db"
  postgres:
    host: "db.example.com"
    port: 5433
    user: "admin"
    password: "secret"
    dbname: "testdb"
    sslmode: "require"
  pool:
    max_idle_conns: 5
    max_open_conns: 50
    conn_max_lifetime: "30m"
devapi:
  port: 3001
  upload_dir: " data/img "
log:
  level: "info"
  format: "json"
`

// minimalYAML is the smallest valid config; tests append or replace lines.
const minimalYAML = `server:
  host: "127.0.0.1"
  port: 3000
  mode: "debug"
api:
  base_url: "http://127.0.0.1:8081/api"
database:
  driver: "sqlite"
  sqlite:
    path: "data/test.db"
log:
  level: "info"
  format: "json"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_FullYAML(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 3000 || cfg.Server.Mode != "release" {
		t.Errorf("Server = %+v", cfg.Server)
	}

	// API
	if cfg.API.BaseURL != "https://shop.example.com/api" {
		t.Errorf("API.BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Token != "service-token" {
		t.Errorf("API.Token = %q, want %q", cfg.API.Token, "service-token")
	}
	if cfg.APITimeout() != 5*time.Second {
		t.Errorf("APITimeout() = %v, want 5s", cfg.APITimeout())
	}

	// Console
	if got := cfg.Console.DebounceFor("brand"); got != 350*time.Millisecond {
		t.Errorf("DebounceFor(brand) = %v, want 350ms", got)
	}
	if got := cfg.Console.DebounceFor("order"); got != 500*time.Millisecond {
		t.Errorf("DebounceFor(orders) = %v, want 500ms", got)
	}
	if !slices.Equal(cfg.Console.PageSizes, []int{5, 10, 20}) {
		t.Errorf("Console.PageSizes = %v, want sorted and deduplicated", cfg.Console.PageSizes)
	}
	if cfg.Console.FetchTimeoutDuration() != 8*time.Second {
		t.Errorf("FetchTimeoutDuration() = %v", cfg.Console.FetchTimeoutDuration())
	}
	if cfg.Console.SessionTTLDuration() != 30*time.Minute {
		t.Errorf("SessionTTLDuration() = %v", cfg.Console.SessionTTLDuration())
	}

	// Database
	if cfg.Database.Driver != "postgres" || cfg.Database.Postgres.Port != 5433 || cfg.Database.Postgres.SSLMode != "require" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Database.Pool.MaxOpenConns != 50 || cfg.Database.Pool.ConnMaxLifetime != "30m" {
		t.Errorf("Pool = %+v", cfg.Database.Pool)
	}

	// DevAPI defaults and normalisation
	if cfg.DevAPI.Host != "127.0.0.1" || cfg.DevAPI.Port != 3001 || cfg.DevAPI.UploadDir != "data/img" {
		t.Errorf("DevAPI = %+v", cfg.DevAPI)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Timeout != "10s" {
		t.Errorf("API.Timeout = %q, want 10s", cfg.API.Timeout)
	}
	if cfg.Console.Debounce != "400ms" || cfg.Console.PageSize != 10 {
		t.Errorf("Console = %+v", cfg.Console)
	}
	if !slices.Equal(cfg.Console.PageSizes, []int{5, 10, 20, 50}) {
		t.Errorf("Console.PageSizes = %v", cfg.Console.PageSizes)
	}
	if cfg.Console.SessionTTL != "2h" || cfg.Console.FetchTimeout != "10s" {
		t.Errorf("Console = %+v", cfg.Console)
	}
	if cfg.DevAPI.Port != 8081 || cfg.DevAPI.UploadDir != "data/uploads" {
		t.Errorf("DevAPI = %+v", cfg.DevAPI)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	t.Setenv("APP__SERVER__PORT", "9090")
	t.Setenv("APP__DATABASE__DRIVER", "sqlite")
	t.Setenv("APP__LOG__LEVEL", "error")
	t.Setenv("APP__API__BASE_URL", "https://api.other.example/api")

	// PoolConfig fields contain underscores; verify single _ is preserved.
	t.Setenv("APP__DATABASE__POOL__MAX_IDLE_CONNS", "20")
	t.Setenv("APP__CONSOLE__FETCH_TIMEOUT", "3s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d (env override)", cfg.Server.Port, 9090)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want %q (env override)", cfg.Database.Driver, "sqlite")
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want %q (env override)", cfg.Log.Level, "error")
	}
	if cfg.API.BaseURL != "https://api.other.example/api" {
		t.Errorf("API.BaseURL = %q (env override)", cfg.API.BaseURL)
	}
	if cfg.Database.Pool.MaxIdleConns != 20 {
		t.Errorf("Pool.MaxIdleConns = %d, want %d (env override)", cfg.Database.Pool.MaxIdleConns, 20)
	}
	if cfg.Console.FetchTimeout != "3s" {
		t.Errorf("Console.FetchTimeout = %q (env override)", cfg.Console.FetchTimeout)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q (unchanged)", cfg.Server.Host, "127.0.0.1")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("APP__API__TOKEN=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("APP__API__TOKEN", "")
	os.Unsetenv("APP__API__TOKEN")

	cfg, err := Load(writeTestConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Token != "from-dotenv" {
		t.Errorf("API.Token = %q, want value from .env", cfg.API.Token)
	}
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("LoadDotEnv() error for missing file: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		want    string
	}{
		{name: "server mode", replace: [2]string{`mode: "debug"`, `mode: "invalid"`}, want: "server.mode"},
		{name: "port zero", replace: [2]string{"port: 3000", "port: 0"}, want: "server.port"},
		{name: "port too large", replace: [2]string{"port: 3000", "port: 70000"}, want: "server.port"},
		{name: "empty host", replace: [2]string{`host: "127.0.0.1"`, `host: "   "`}, want: "server.host"},
		{name: "missing base url", replace: [2]string{`base_url: "http://127.0.0.1:8081/api"`, `base_url: ""`}, want: "api.base_url"},
		{name: "relative base url", replace: [2]string{`base_url: "http://127.0.0.1:8081/api"`, `base_url: "/api"`}, want: "api.base_url"},
		{name: "ftp base url", replace: [2]string{`base_url: "http://127.0.0.1:8081/api"`, `base_url: "ftp://shop/api"`}, want: "api.base_url"},
		{name: "database driver", replace: [2]string{`driver: "sqlite"`, `driver: "mysql"`}, want: "database.driver"},
		{name: "sqlite path", replace: [2]string{`path: "data/test.db"`, `path: "  "`}, want: "database.sqlite.path"},
		{name: "log level", replace: [2]string{`level: "info"`, `level: "trace"`}, want: "log.level"},
		{name: "log format", replace: [2]string{`format: "json"`, `format: "xml"`}, want: "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml := strings.Replace(minimalYAML, tt.replace[0], tt.replace[1], 1)
			_, err := Load(writeTestConfig(t, yaml))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.want)
			}
		})
	}
}

func TestLoad_ConsoleValidation(t *testing.T) {
	tests := []struct {
		name    string
		console string
		want    string
	}{
		{name: "debounce too short", console: "  debounce: \"100ms\"\n", want: "console.debounce"},
		{name: "debounce too long", console: "  debounce: \"1s\"\n", want: "console.debounce"},
		{name: "debounce invalid", console: "  debounce: \"soon\"\n", want: "console.debounce"},
		{name: "entity debounce", console: "  debounce_by_entity:\n    products: \"50ms\"\n", want: "console.debounce_by_entity.products"},
		{name: "page size not offered", console: "  page_size: 7\n", want: "console.page_size"},
		{name: "non positive page size", console: "  page_sizes: [0, 10]\n", want: "console.page_sizes"},
		{name: "fetch timeout", console: "  fetch_timeout: \"-1s\"\n", want: "console.fetch_timeout"},
		{name: "session ttl", console: "  session_ttl: \"0s\"\n", want: "console.session_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTestConfig(t, minimalYAML+"console:\n"+tt.console))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.want)
			}
		})
	}
}

func TestLoad_DebounceBoundsInclusive(t *testing.T) {
	for _, d := range []string{"300ms", "500ms"} {
		cfg, err := Load(writeTestConfig(t, minimalYAML+"console:\n  debounce: \""+d+"\"\n"))
		if err != nil {
			t.Fatalf("Load() with debounce %s: %v", d, err)
		}
		want, _ := time.ParseDuration(d)
		if cfg.Console.DebounceFor("any") != want {
			t.Errorf("DebounceFor = %v, want %v", cfg.Console.DebounceFor("any"), want)
		}
	}
}

func TestLoad_ReleaseRequiresHTTPSForRemoteAPI(t *testing.T) {
	yaml := strings.Replace(minimalYAML, `mode: "debug"`, `mode: "release"`, 1)
	remote := strings.Replace(yaml, "http://127.0.0.1:8081/api", "http://shop.example.com/api", 1)
	if _, err := Load(writeTestConfig(t, remote)); err == nil || !strings.Contains(err.Error(), "https") {
		t.Fatalf("Load() error = %v, want https requirement", err)
	}
	if _, err := Load(writeTestConfig(t, yaml)); err != nil {
		t.Fatalf("loopback http API should be allowed in release mode: %v", err)
	}
}

func TestLoad_PostgresValidation(t *testing.T) {
	base := strings.Replace(minimalYAML, `driver: "sqlite"`, `driver: "postgres"`, 1)
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing host",
			yaml: strings.Replace(base, "  sqlite:\n    path: \"data/test.db\"\n", "  postgres:\n    host: \"\"\n    port: 5432\n    user: \"u\"\n    dbname: \"d\"\n    sslmode: \"disable\"\n", 1),
			want: "database.postgres.host",
		},
		{
			name: "bad port",
			yaml: strings.Replace(base, "  sqlite:\n    path: \"data/test.db\"\n", "  postgres:\n    host: \"db\"\n    port: 0\n    user: \"u\"\n    dbname: \"d\"\n    sslmode: \"disable\"\n", 1),
			want: "database.postgres.port",
		},
		{
			name: "bad sslmode",
			yaml: strings.Replace(base, "  sqlite:\n    path: \"data/test.db\"\n", "  postgres:\n    host: \"db\"\n    port: 5432\n    user: \"u\"\n    dbname: \"d\"\n    sslmode: \"sometimes\"\n", 1),
			want: "database.postgres.sslmode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTestConfig(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.want)
			}
		})
	}
}

func TestLoad_DevAPIValidation(t *testing.T) {
	tests := []struct {
		name   string
		devapi string
		want   string
	}{
		{name: "port collides with console", devapi: "  port: 3000\n", want: "collides"},
		{name: "short secret", devapi: "  jwt_secret: \"short\"\n", want: "devapi.jwt_secret"},
		{name: "bad port", devapi: "  port: 99999\n", want: "devapi.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTestConfig(t, minimalYAML+"devapi:\n"+tt.devapi))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.want)
			}
		})
	}
}

func TestLoad_NonPositiveDurations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "server timeout", yaml: strings.Replace(minimalYAML, "  mode: \"debug\"\n", "  mode: \"debug\"\n  timeout: \"0s\"\n", 1), want: "server.timeout"},
		{name: "cors max age", yaml: strings.Replace(minimalYAML, "  mode: \"debug\"\n", "  mode: \"debug\"\n  cors:\n    max_age: \"-1h\"\n", 1), want: "server.cors.max_age"},
		{name: "api timeout", yaml: strings.Replace(minimalYAML, "  base_url: \"http://127.0.0.1:8081/api\"\n", "  base_url: \"http://127.0.0.1:8081/api\"\n  timeout: \"0s\"\n", 1), want: "api.timeout"},
		{name: "pool lifetime", yaml: strings.Replace(minimalYAML, "    path: \"data/test.db\"\n", "    path: \"data/test.db\"\n  pool:\n    conn_max_lifetime: \"0s\"\n", 1), want: "database.pool.conn_max_lifetime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTestConfig(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want contains %q", err, tt.want)
			}
		})
	}
}

func TestLoad_OptionalDurationWhitespace_NormalizedAsUnset(t *testing.T) {
	yaml := strings.Replace(minimalYAML, "  mode: \"debug\"\n", "  mode: \"debug\"\n  timeout: \"   \"\n", 1)
	cfg, err := Load(writeTestConfig(t, yaml))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Timeout != "" {
		t.Errorf("Server.Timeout = %q, want empty", cfg.Server.Timeout)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load() error on project config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.DevAPI.Port != 8081 {
		t.Errorf("DevAPI.Port = %d, want %d", cfg.DevAPI.Port, 8081)
	}
	if cfg.Console.DebounceFor("product") != 300*time.Millisecond {
		t.Errorf("products debounce = %v, want 300ms", cfg.Console.DebounceFor("product"))
	}
	if cfg.Console.DebounceFor("order") != 500*time.Millisecond {
		t.Errorf("orders debounce = %v, want 500ms", cfg.Console.DebounceFor("order"))
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "sqlite")
	}
}

func TestCountSecretClasses(t *testing.T) {
	tests := []struct {
		secret string
		want   int
	}{
		{"", 0},
		{"abc", 1},
		{"abcDEF", 2},
		{"abcDEF123", 3},
		{"abcDEF123!@#", 4},
		{"中文", 1},
	}
	for _, tt := range tests {
		if got := CountSecretClasses(tt.secret); got != tt.want {
			t.Errorf("CountSecretClasses(%q) = %d, want %d", tt.secret, got, tt.want)
		}
	}
}
