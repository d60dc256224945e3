package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Files   FilesConfig   `yaml:"files"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type FilesConfig struct {
	Dir string `yaml:"dir"`
}

type SessionConfig struct {
	// TTLHours is the lifetime of a login session.
	TTLHours int `yaml:"ttl_hours"`
	// DeveloperGroup is the group whose members hold the developer role.
	DeveloperGroup string `yaml:"developer_group"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "feedtrack.db",
		},
		Files: FilesConfig{
			Dir: "feedtrack-files",
		},
		Session: SessionConfig{
			TTLHours:       24 * 7,
			DeveloperGroup: "developers",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("FEEDTRACK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("FEEDTRACK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("FEEDTRACK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FEEDTRACK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("FEEDTRACK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if dir := os.Getenv("FEEDTRACK_FILES_DIR"); dir != "" {
		cfg.Files.Dir = dir
	}
	if group := os.Getenv("FEEDTRACK_DEVELOPER_GROUP"); group != "" {
		cfg.Session.DeveloperGroup = group
	}
	if level := os.Getenv("FEEDTRACK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
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
