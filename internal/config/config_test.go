package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var envKeys = []string{
	"PORT", "CONNECTION_STRING", "SEED_DATA", "JWT_SECRET",
	"JWT_ISSUER", "JWT_TTL_MINUTES", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return configFile
}

func TestLoad_DefaultsNeedSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	if err == nil {
		t.Fatal("Expected error when no JWT secret is configured")
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}
	if len(verrs) != 1 || verrs[0].FieldPath != "auth.jwt_secret" {
		t.Errorf("Unexpected validation errors: %+v", verrs)
	}
}

func TestLoad_DefaultsWithSecretFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Errorf("Address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.ConnectionStrings.DefaultConnection != "Data Source=todo.db" {
		t.Errorf("DefaultConnection = %q", cfg.ConnectionStrings.DefaultConnection)
	}
	if cfg.Auth.Issuer != "todo-api" || cfg.Auth.TokenTTLMinutes != 60 {
		t.Errorf("Unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Database.Seed {
		t.Error("Seed should default to false")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	_, err := Load("/non/existent/file.toml")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	configFile := writeConfig(t, `[server
address = ":9000"`)

	_, err := Load(configFile)
	if err == nil {
		t.Fatal("Expected error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "line ") {
		t.Errorf("Expected error position in %q", err.Error())
	}
}

func TestLoad_ValidFile(t *testing.T) {
	clearEnv(t)
	configFile := writeConfig(t, `[server]
address = "127.0.0.1:9000"

[connection_strings]
default_connection = "Data Source=/var/lib/todo/items.db"

[database]
seed = true

[auth]
jwt_secret = "`+testSecret+`"
issuer = "unit-test"
token_ttl_minutes = 5

[log]
level = "debug"
format = "json"
`)

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address != "127.0.0.1:9000" {
		t.Errorf("Address = %q", cfg.Server.Address)
	}
	if !cfg.Database.Seed {
		t.Error("Expected seed = true")
	}
	if cfg.Auth.Issuer != "unit-test" || cfg.Auth.TokenTTLMinutes != 5 {
		t.Errorf("Unexpected auth: %+v", cfg.Auth)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Unexpected log: %+v", cfg.Log)
	}

	path, err := cfg.DataSource()
	if err != nil {
		t.Fatalf("DataSource failed: %v", err)
	}
	if path != "/var/lib/todo/items.db" {
		t.Errorf("DataSource = %q", path)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	configFile := writeConfig(t, `[server]
address = ":9000"

[auth]
jwt_secret = "`+testSecret+`"
`)
	t.Setenv("PORT", "7070")
	t.Setenv("CONNECTION_STRING", ":memory:")
	t.Setenv("SEED_DATA", "true")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Address != ":7070" {
		t.Errorf("Address = %q, want :7070", cfg.Server.Address)
	}
	if cfg.ConnectionStrings.DefaultConnection != ":memory:" {
		t.Errorf("DefaultConnection = %q", cfg.ConnectionStrings.DefaultConnection)
	}
	if !cfg.Database.Seed {
		t.Error("Expected SEED_DATA to enable seeding")
	}
	if cfg.Auth.TokenTTLMinutes != 15 {
		t.Errorf("TokenTTLMinutes = %d", cfg.Auth.TokenTTLMinutes)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestLoad_InvalidEnvValues(t *testing.T) {
	tests := map[string]string{
		"SEED_DATA":       "maybe",
		"JWT_TTL_MINUTES": "ten",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", testSecret)
			t.Setenv(key, value)

			if _, err := Load(""); err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("Expected error naming %s, got %v", key, err)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Server.Address = "no-port"
	cfg.ConnectionStrings.DefaultConnection = ""
	cfg.Auth.JWTSecret = "short"
	cfg.Auth.TokenTTLMinutes = 0
	cfg.Log.Level = "loud"

	err := Validate(cfg)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}

	got := map[string]string{}
	for _, ve := range verrs {
		got[ve.FieldPath] = ve.Message
	}

	want := map[string]string{
		"server.address":                        "must be in format 'host:port' (host may be empty)",
		"connection_strings.default_connection": "field is required",
		"auth.jwt_secret":                       "must be at least 32 characters long",
		"auth.token_ttl_minutes":                "must be >= 1",
		"log.level":                             "must be one of: debug info warn error",
	}
	for path, msg := range want {
		if got[path] != msg {
			t.Errorf("%s: got %q, want %q", path, got[path], msg)
		}
	}
	if !strings.Contains(err.Error(), "5 error(s)") {
		t.Errorf("Unexpected error text: %s", err.Error())
	}
}

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "todo.db", want: "todo.db"},
		{in: ":memory:", want: ":memory:"},
		{in: "Data Source=todo.db", want: "todo.db"},
		{in: "data source = /tmp/a.db ;Cache=Shared", want: "/tmp/a.db"},
		{in: "Mode=ReadWrite;DataSource=b.db", want: "b.db"},
		{in: "Filename=c.db", want: "c.db"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "Data Source=", wantErr: true},
		{in: "Cache=Shared", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseConnectionString(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseConnectionString(%q) = %q, expected error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConnectionString(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConnectionString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
