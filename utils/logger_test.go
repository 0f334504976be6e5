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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog4jFormatter(t *testing.T) {
	f := &Log4jFormatter{LoggerName: "REPOSITORY-LONG", NameWidth: 10}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 6000000, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "slow query",
		Data:    logrus.Fields{"rows": 3},
	}
	b, err := f.Format(entry)
	require.NoError(t, err)
	line := string(b)
	assert.True(t, strings.HasPrefix(line, "2025-01-02 03:04:05.006"))
	assert.Contains(t, line, "WARNING")
	assert.Contains(t, line, "[REPOSITORY]")
	assert.Contains(t, line, " : slow query rows=3")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "DATABASE", TimestampFormat: time.RFC3339}
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.ErrorLevel,
		Message: "commit failed",
		Data:    logrus.Fields{"error": errors.New("boom"), "changes": 2},
	}
	b, err := f.Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &rec))
	assert.Equal(t, "2025-01-02T03:04:05Z", rec["time"])
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "DATABASE", rec["model"])
	assert.Equal(t, "commit failed", rec["message"])
	fields := rec["fields"].(map[string]interface{})
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, float64(2), fields["changes"])
}

func TestNewLoggerWritesToConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	ConfigureConsoleOutput(&buf)
	t.Cleanup(func() { ConfigureConsoleOutput(nil) })

	l := NewLogger("UTILS-TEST")
	assert.Same(t, l, NewLogger("UTILS-TEST"))

	l.SetLevel(logrus.InfoLevel)
	l.Debug("hidden")
	l.Info("visible")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "UTILS-TEST")
}

func TestSetLoggerLevel(t *testing.T) {
	l := NewLogger("LEVEL-TEST")
	assert.True(t, SetLoggerLevel("LEVEL-TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("NOT-REGISTERED", "debug"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_TEST_STRING", "value")
	t.Setenv("UTILS_TEST_BOOL", "true")
	t.Setenv("UTILS_TEST_BAD_BOOL", "maybe")
	t.Setenv("UTILS_TEST_SECONDS", "15")
	t.Setenv("UTILS_TEST_DURATION", "1m30s")
	t.Setenv("UTILS_TEST_BAD_DURATION", "soon")
	os.Unsetenv("UTILS_TEST_MISSING")

	assert.Equal(t, "value", EnvDefaultString("UTILS_TEST_STRING", "def"))
	assert.Equal(t, "def", EnvDefaultString("UTILS_TEST_MISSING", "def"))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BAD_BOOL", true))
	assert.Equal(t, 15*time.Second, EnvDefaultDuration("UTILS_TEST_SECONDS", 0))
	assert.Equal(t, 90*time.Second, EnvDefaultDuration("UTILS_TEST_DURATION", 0))
	assert.Equal(t, time.Minute, EnvDefaultDuration("UTILS_TEST_BAD_DURATION", time.Minute))
}

func TestLimitRunes(t *testing.T) {
	assert.Equal(t, "DATA", limitRunes("DATABASE", 4))
	assert.Equal(t, "DB", limitRunes("DB", 4))
	assert.Equal(t, "日本", limitRunes("日本語", 2))
	assert.Equal(t, "any", limitRunes("any", 0))
}
