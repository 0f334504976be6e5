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
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type logEntry struct {
	level  string
	msg    string
	fields []interface{}
}

// captureLogger records every call for assertions.
type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) SetLevel(LogLevel) {}

func (l *captureLogger) Debug(msg string, fields ...interface{}) { l.add("debug", msg, fields) }
func (l *captureLogger) Info(msg string, fields ...interface{})  { l.add("info", msg, fields) }
func (l *captureLogger) Warn(msg string, fields ...interface{})  { l.add("warn", msg, fields) }
func (l *captureLogger) Error(msg string, fields ...interface{}) { l.add("error", msg, fields) }

func (l *captureLogger) add(level, msg string, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) byLevel(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

func sqliteConnConfig(t *testing.T) *ConnectionConfig {
	t.Helper()
	cfg := DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "database.db")
	return cfg
}

func connectSQLite(t *testing.T) (AbstractDatabaseManager, *bun.DB) {
	t.Helper()
	manager := NewDatabaseManager(sqliteConnConfig(t))
	manager.SetLogger(&captureLogger{})
	require.NoError(t, manager.Connect(context.Background()))
	t.Cleanup(func() { _ = manager.Disconnect() })
	return manager, manager.GetDB()
}

type widget struct {
	bun.BaseModel `bun:"table:widgets,alias:w"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull,unique"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func insertWidget(name string) Change {
	return Change{
		Kind:  ChangeInsert,
		Model: "widget",
		Rows:  1,
		Apply: func(ctx context.Context, db bun.IDB) error {
			_, err := db.NewInsert().Model(&widget{Name: name}).Exec(ctx)
			return err
		},
	}
}

func countWidgets(t *testing.T, db bun.IDB) int {
	t.Helper()
	n, err := db.NewSelect().Model((*widget)(nil)).Count(context.Background())
	require.NoError(t, err)
	return n
}

func widgetNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("widget-%d", i)
	}
	return names
}
