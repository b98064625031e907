package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Notion    NotionConfig    `yaml:"notion"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NotionConfig holds the remote endpoint and the optional startup
// credentials.
type NotionConfig struct {
	BaseURL            string        `yaml:"base_url"`
	Version            string        `yaml:"version"`
	Timeout            time.Duration `yaml:"timeout"`
	Token              string        `yaml:"token"`
	ProjectsDatabaseID string        `yaml:"projects_database_id"`
	StatusDatabaseID   string        `yaml:"status_database_id"`
	UpdatesDatabaseID  string        `yaml:"updates_database_id"`
}

// Credentials returns the configured credential set.
func (n NotionConfig) Credentials() dashboard.Credentials {
	return dashboard.Credentials{
		Token:              n.Token,
		ProjectsDatabaseID: n.ProjectsDatabaseID,
		StatusDatabaseID:   n.StatusDatabaseID,
		UpdatesDatabaseID:  n.UpdatesDatabaseID,
	}
}

// HasCredentials reports whether all four credential fields are set.
func (n NotionConfig) HasCredentials() bool {
	return n.Token != "" && n.ProjectsDatabaseID != "" && n.StatusDatabaseID != "" && n.UpdatesDatabaseID != ""
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: "ragboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Notion: NotionConfig{
			Timeout: 10 * time.Second,
		},
	}

	if path := os.Getenv("RAGBOARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("RAGBOARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("RAGBOARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RAGBOARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("RAGBOARD_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("RAGBOARD_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("RAGBOARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("RAGBOARD_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if enabled := os.Getenv("RAGBOARD_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RAGBOARD_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if baseURL := os.Getenv("RAGBOARD_NOTION_BASE_URL"); baseURL != "" {
		cfg.Notion.BaseURL = baseURL
	}
	if timeout := os.Getenv("RAGBOARD_NOTION_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RAGBOARD_NOTION_TIMEOUT: %w", err)
		}
		cfg.Notion.Timeout = d
	}
	if token := os.Getenv("RAGBOARD_NOTION_TOKEN"); token != "" {
		cfg.Notion.Token = token
	}
	if id := os.Getenv("RAGBOARD_NOTION_PROJECTS_DB"); id != "" {
		cfg.Notion.ProjectsDatabaseID = id
	}
	if id := os.Getenv("RAGBOARD_NOTION_STATUS_DB"); id != "" {
		cfg.Notion.StatusDatabaseID = id
	}
	if id := os.Getenv("RAGBOARD_NOTION_UPDATES_DB"); id != "" {
		cfg.Notion.UpdatesDatabaseID = id
	}

	switch cfg.Transport.Mode {
	case "http", "stdio":
	default:
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
