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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
connection:
  type: postgres
  host: 127.0.0.1
  port: 5432
  username: app
  dbname: shop
  connect_timeout: 5s
  max_open_conns: 20
schema:
  create_tables_on_startup: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	c := cfg.ConnectionConfig
	assert.Equal(t, "postgres", c.Type)
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, 5432, c.Port)
	assert.Equal(t, "app", c.Username)
	assert.Equal(t, "shop", c.DBName)
	assert.Equal(t, 5*time.Second, c.ConnectTimeout)
	assert.Equal(t, 20, c.MaxOpenConns)
	assert.Equal(t, 10, c.MaxIdleConns, "unset keys keep their defaults")
	assert.True(t, cfg.SchemaConfig.CreateTablesOnStartup)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
connection:
  type: mysql
  host: db.internal
  dbname: shop
`)
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_NAME", "override")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")
	t.Setenv("DB_CREATE_TABLES", "1")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	c := cfg.ConnectionConfig
	assert.Equal(t, "sqlite", c.Type)
	assert.Equal(t, "override", c.DBName)
	assert.Equal(t, 3307, c.Port)
	assert.Equal(t, 10, c.MaxIdleConns)
	assert.Equal(t, 90*time.Second, c.ConnMaxLifetime)
	assert.Equal(t, 250*time.Millisecond, c.SlowQueryTime)
	assert.True(t, c.EnableQueryLog)
	assert.True(t, cfg.SchemaConfig.CreateTablesOnStartup)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "connection: [not, a, map"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "connection:\n  type: mysql\n  dbname: shop\n"))
	assert.ErrorContains(t, err, "host")
}

func TestApplyEnvNil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyEnv(nil) })
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		typ     string
		host    string
		dbname  string
		wantErr bool
	}{
		{"sqlite without host", "sqlite", "", "app", false},
		{"sqlite3 alias", "SQLite3", "", "app", false},
		{"pgx", "pgx", "localhost", "app", false},
		{"postgresql alias", "postgresql", "localhost", "app", false},
		{"mysql needs host", "mysql", "", "app", true},
		{"missing dbname", "sqlite", "", "", true},
		{"unsupported", "oracle", "localhost", "app", true},
		{"empty type", "", "", "app", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ConnectionConfig.Type = tc.typ
			cfg.ConnectionConfig.Host = tc.host
			cfg.ConnectionConfig.DBName = tc.dbname
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
