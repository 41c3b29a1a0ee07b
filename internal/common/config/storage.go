package config

import (
	"fmt"
	"time"
)

type (
	// DatabaseConfig selects the relational store
	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
		LogSQL   bool   `yaml:"log_sql"`
	}

	// RedisConfig is shared by every redis-backed store
	RedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}

	// HistoryConfig selects the prompt history backend
	HistoryConfig struct {
		Type   string        `yaml:"type"` // memory or redis
		Prefix string        `yaml:"prefix"`
		Limit  int           `yaml:"limit"`
		TTL    time.Duration `yaml:"ttl"` // 0 keeps entries until evicted
	}

	// PrefsConfig selects the settings backend
	PrefsConfig struct {
		Type   string `yaml:"type"` // memory or redis
		Prefix string `yaml:"prefix"`
		Topic  string `yaml:"topic"`
	}
)

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		return c.DBName
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, sslMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
