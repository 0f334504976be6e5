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
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/tomoncle/repokit/database"

// MetricsHook records query counts and durations through OpenTelemetry.
type MetricsHook struct {
	system   string
	queries  metric.Int64Counter
	duration metric.Float64Histogram
}

var _ bun.QueryHook = (*MetricsHook)(nil)

// NewMetricsHook builds the instruments on provider. system labels every
// measurement with the database type.
func NewMetricsHook(provider metric.MeterProvider, system string) (*MetricsHook, error) {
	meter := provider.Meter(meterName)

	queries, err := meter.Int64Counter(
		"db_queries_total",
		metric.WithDescription("Total number of executed database queries"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Database query duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsHook{system: system, queries: queries, duration: duration}, nil
}

func (h *MetricsHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *MetricsHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	status := "ok"
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("db.system", h.system),
		attribute.String("db.operation", event.Operation()),
		attribute.String("status", status),
	)
	h.queries.Add(ctx, 1, attrs)
	h.duration.Record(ctx, time.Since(event.StartTime).Seconds(), attrs)
}
