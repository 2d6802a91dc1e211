package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Server            ServerConfig      `toml:"server"`
	ConnectionStrings ConnectionStrings `toml:"connection_strings"`
	Database          DatabaseConfig    `toml:"database"`
	Auth              AuthConfig        `toml:"auth"`
	Log               LogConfig         `toml:"log"`
}

type ServerConfig struct {
	Address string `toml:"address" validate:"required,hostname_port"`
}

type ConnectionStrings struct {
	DefaultConnection string `toml:"default_connection" validate:"required"`
}

type DatabaseConfig struct {
	Seed bool `toml:"seed"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret" validate:"required,min=32"`
	Issuer          string `toml:"issuer" validate:"required"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes" validate:"min=1"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=console json"`
}

// Default returns the configuration used when nothing overrides it.
// JWTSecret has no default and must always be supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		ConnectionStrings: ConnectionStrings{
			DefaultConnection: "Data Source=todo.db",
		},
		Auth: AuthConfig{
			Issuer:          "todo-api",
			TokenTTLMinutes: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at configPath
// (skipped when empty) and environment variables, then validates it.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(configPath string) error {
	configFile, err := filepath.Abs(filepath.Clean(configPath))
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("configuration file not found: %s", configFile)
		}
		return fmt.Errorf("failed to read config file: %v", err)
	}

	if err := toml.Unmarshal(content, c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("failed to parse config file at line %d, column %d: %v", row, col, derr)
		}
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Address = ":" + port
	}
	if v := os.Getenv("CONNECTION_STRING"); v != "" {
		c.ConnectionStrings.DefaultConnection = v
	}
	if v := os.Getenv("SEED_DATA"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SEED_DATA value %q: %v", v, err)
		}
		c.Database.Seed = seed
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		c.Auth.Issuer = v
	}
	if v := os.Getenv("JWT_TTL_MINUTES"); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL_MINUTES value %q: %v", v, err)
		}
		c.Auth.TokenTTLMinutes = ttl
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

// DataSource returns the database path named by the default connection string.
func (c *Config) DataSource() (string, error) {
	return ParseConnectionString(c.ConnectionStrings.DefaultConnection)
}

// ParseConnectionString accepts either a bare path or a semicolon separated
// "key=value" string and returns the value of its "Data Source" (or
// "DataSource", "Filename") key.
func ParseConnectionString(conn string) (string, error) {
	conn = strings.TrimSpace(conn)
	if conn == "" {
		return "", errors.New("connection string is empty")
	}
	if !strings.Contains(conn, "=") {
		return conn, nil
	}

	for _, part := range strings.Split(conn, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.Join(strings.Fields(key), " ")) {
		case "data source", "datasource", "filename":
			value = strings.TrimSpace(value)
			if value == "" {
				return "", fmt.Errorf("connection string %q has an empty data source", conn)
			}
			return value, nil
		}
	}

	return "", fmt.Errorf("connection string %q has no data source", conn)
}
