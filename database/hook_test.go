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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestSlowQueryHook(t *testing.T) {
	ctx := context.Background()
	logger := &captureLogger{}
	hook := NewSlowQueryHook(10*time.Millisecond, logger)

	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	assert.Empty(t, logger.byLevel("warn"))

	hook.AfterQuery(ctx, &bun.QueryEvent{
		Query:     "SELECT * FROM widgets",
		StartTime: time.Now().Add(-time.Second),
		Err:       errors.New("failed"),
	})
	assert.Empty(t, logger.byLevel("warn"), "failed queries are not reported as slow")

	hook.AfterQuery(ctx, &bun.QueryEvent{Query: "UPDATE widgets SET name = 'x'", StartTime: time.Now().Add(-time.Second)})
	warns := logger.byLevel("warn")
	require.Len(t, warns, 1)
	assert.Equal(t, "Database slow query detected", warns[0].msg)
	assert.Contains(t, warns[0].fields, "query")
}

func TestSlowQueryHookDisabledByEnv(t *testing.T) {
	t.Setenv(SlowQueryEnv, "0")
	logger := &captureLogger{}
	hook := NewSlowQueryHook(time.Millisecond, logger)
	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now().Add(-time.Second)})
	assert.Empty(t, logger.byLevel("warn"))
}

func TestFormatOperationColorKeepsQuery(t *testing.T) {
	for _, q := range []string{"SELECT 1", "INSERT INTO w VALUES (1)", "PRAGMA foreign_keys"} {
		assert.Contains(t, formatOperationColor(&bun.QueryEvent{Query: q}), q)
	}
}

func TestSlowQueryHookOnDatabase(t *testing.T) {
	ctx := context.Background()
	_, db := connectSQLite(t)
	logger := &captureLogger{}
	db.AddQueryHook(NewSlowQueryHook(-1, logger))

	require.NoError(t, CreateTables(ctx, db, (*widget)(nil)))
	assert.NotEmpty(t, logger.byLevel("warn"), "a negative threshold reports every query")
}
