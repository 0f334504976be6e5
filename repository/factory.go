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

package repository

import (
	"context"
	"fmt"

	"github.com/tomoncle/repokit/database"
	"github.com/tomoncle/repokit/types"
	"github.com/uptrace/bun"
)

// Factory owns one Session and hands out repositories bound to it. Close it
// when the unit of work is done.
type Factory struct {
	manager database.AbstractDatabaseManager // nil when the DB is borrowed
	session *database.Session
	logger  database.Logger
}

// NewFactory connects using cfg and opens a fresh session. When
// cfg.SchemaConfig.CreateTablesOnStartup is set, registered models get
// their tables created first.
func NewFactory(ctx context.Context, cfg *database.Config) (*Factory, error) {
	if cfg == nil {
		return nil, invalidArgument("database configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	f, err := NewFactoryWithManager(ctx, database.NewDatabaseManager(&cfg.ConnectionConfig))
	if err != nil {
		return nil, err
	}
	if cfg.SchemaConfig.CreateTablesOnStartup {
		if err := f.CreateTables(ctx, database.RegisteredModelInstances()...); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// NewFactoryWithManager takes ownership of manager: it is connected here and
// disconnected by Close.
func NewFactoryWithManager(ctx context.Context, manager database.AbstractDatabaseManager) (*Factory, error) {
	if manager == nil {
		return nil, invalidArgument("database manager cannot be nil")
	}
	if err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger := database.GetLogger()
	return &Factory{
		manager: manager,
		session: database.NewSession(manager.GetDB(), logger, manager.Disconnect),
		logger:  logger,
	}, nil
}

// NewFactoryFromDB opens a session over a DB owned by the caller. Close
// leaves db open.
func NewFactoryFromDB(db *bun.DB) (*Factory, error) {
	if db == nil {
		return nil, invalidArgument("db cannot be nil")
	}
	logger := database.GetLogger()
	return &Factory{
		session: database.NewSession(db, logger, nil),
		logger:  logger,
	}, nil
}

// CreateRepository returns a new repository for T sharing the factory's
// session. Call it as CreateRepository[User](f).
func CreateRepository[T any, P types.EntityPtr[T]](f *Factory) Repository[T] {
	return newRepository[T, P](f.session)
}

func (f *Factory) Session() *database.Session { return f.session }

// Manager is nil for factories built with NewFactoryFromDB.
func (f *Factory) Manager() database.AbstractDatabaseManager { return f.manager }

func (f *Factory) CreateTables(ctx context.Context, models ...interface{}) error {
	db, err := f.session.DB()
	if err != nil {
		return err
	}
	return database.CreateTables(ctx, db, models...)
}

func (f *Factory) Ping(ctx context.Context) error {
	db, err := f.session.DB()
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		if f.session.Closed() {
			return fmt.Errorf("%w: %v", ErrClosed, err)
		}
		return err
	}
	return nil
}

func (f *Factory) Closed() bool { return f.session.Closed() }

// Close discards anything not yet saved and releases the connection. It is
// safe to call more than once.
func (f *Factory) Close() error {
	if err := f.session.Close(); err != nil {
		f.logger.Error("Failed to close repository factory", "session", f.session.ID(), "error", err)
		return err
	}
	return nil
}
