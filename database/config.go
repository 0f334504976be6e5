/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tomoncle/repokit/utils"
	"gopkg.in/yaml.v3"
)

var supportedTypes = []string{"mysql", "postgres", "postgresql", "pgx", "sqlite", "sqlite3"}

// LoadConfig reads a YAML file on top of DefaultConfig and applies DB_*
// environment overrides.
//
//	connection:
//	  type: postgres
//	  host: 127.0.0.1
//	  port: 5432
//	  connect_timeout: 5s
//	schema:
//	  create_tables_on_startup: true
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides configuration values from environment variables.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	c := &cfg.ConnectionConfig
	if typ := os.Getenv("DB_TYPE"); typ != "" {
		c.Type = typ
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		c.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		c.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		c.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		c.SSLMode = sslmode
	}
	// Connection pool config
	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil {
			c.MaxIdleConns = val
		}
	}
	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil {
			c.MaxOpenConns = val
		}
	}
	c.ConnMaxLifetime = utils.EnvDefaultDuration("DB_CONN_MAX_LIFETIME", c.ConnMaxLifetime)
	c.SlowQueryTime = utils.EnvDefaultDuration("DB_SLOW_QUERY_TIME", c.SlowQueryTime)
	c.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", c.EnableQueryLog)
	c.EnableMetrics = utils.EnvDefaultBool("DB_ENABLE_METRICS", c.EnableMetrics)
	cfg.SchemaConfig.CreateTablesOnStartup = utils.EnvDefaultBool("DB_CREATE_TABLES", cfg.SchemaConfig.CreateTablesOnStartup)
}

// Validate checks the database type and the fields it needs.
func (c *Config) Validate() error {
	typ := strings.ToLower(c.ConnectionConfig.Type)
	supported := false
	for _, t := range supportedTypes {
		if typ == t {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database type: %q, supported types: %v", c.ConnectionConfig.Type, supportedTypes)
	}
	if c.ConnectionConfig.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if !isSQLite(typ) && c.ConnectionConfig.Host == "" {
		return fmt.Errorf("database host cannot be empty for type %s", typ)
	}
	return nil
}

func isSQLite(typ string) bool {
	return typ == "sqlite" || typ == "sqlite3"
}
