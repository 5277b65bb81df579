package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Database        DatabaseConfig   `json:"database"`
	JWTSecret       string           `json:"jwt_secret"`
	Port            int              `json:"port"`
	JWTTTLHours     int              `json:"jwt_ttl_hours"`
	CORSAllowlist   []string         `json:"cors_allowlist"`
	RateLimitMillis int              `json:"rate_limit_millis"`
	LogConfig       logger.LogConfig `json:"log_config"`
	Jobs            JobsConfig       `json:"jobs"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type JobsConfig struct {
	PopularityRefreshSpec string `json:"popularity_refresh_spec"`
	ReportCleanupSpec     string `json:"report_cleanup_spec"`
	ReportKeepDays        int    `json:"report_keep_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Jobs.PopularityRefreshSpec == "" {
		cfg.Jobs.PopularityRefreshSpec = "*/30 * * * *"
	}
	if cfg.Jobs.ReportCleanupSpec == "" {
		cfg.Jobs.ReportCleanupSpec = "0 4 * * *"
	}
	if cfg.Jobs.ReportKeepDays == 0 {
		cfg.Jobs.ReportKeepDays = 30
	}
	return &cfg, nil
}
