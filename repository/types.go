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

	"github.com/tomoncle/repokit/types"
)

// CrudRepository stages inserts, updates and deletes for one entity type.
// Nothing reaches the database before Save.
type CrudRepository[T any] interface {
	Add(ctx context.Context, entity *T) error

	AddRange(ctx context.Context, entities []*T) error

	// Update stages a write of every column except created_at of an entity
	// that already has an ID. The entity may be built from its ID alone.
	Update(ctx context.Context, entity *T) error

	Remove(ctx context.Context, entity *T) error

	RemoveRange(ctx context.Context, entities []*T) error

	// Upsert stages an insert that updates fields when conflictKeys collide.
	// conflictKeys defaults to the "id" column.
	Upsert(ctx context.Context, fields []string, conflictKeys []string, entities ...*T) error
}

// QueryRepository reads committed rows.
type QueryRepository[T any] interface {
	// Find returns the only entity matching filter, nil when none match and
	// ErrMultipleResults when several do. filter is required.
	Find(ctx context.Context, filter types.Filter, include types.Include) (*T, error)

	// Get returns page pageNumber (from 1) of pageSize entities matching
	// filter; a nil filter matches everything.
	Get(ctx context.Context, filter types.Filter, pageNumber, pageSize int, include types.Include) ([]*T, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Count ignores pagination; a nil filter counts every row.
	Count(ctx context.Context, filter types.Filter) (int, error)

	// Exists requires a filter.
	Exists(ctx context.Context, filter types.Filter) (bool, error)
}

// UnitOfWork commits what was staged through any repository sharing the
// session.
type UnitOfWork interface {
	Save(ctx context.Context) error

	// Discard drops every staged change of the session, for example after
	// a Save that failed.
	Discard()
}

// AsyncRepository mirrors the blocking operations. Each channel delivers one
// value and is closed.
type AsyncRepository[T any] interface {
	AddAsync(ctx context.Context, entity *T) <-chan error
	AddRangeAsync(ctx context.Context, entities []*T) <-chan error
	UpdateAsync(ctx context.Context, entity *T) <-chan error
	RemoveAsync(ctx context.Context, entity *T) <-chan error
	RemoveRangeAsync(ctx context.Context, entities []*T) <-chan error
	UpsertAsync(ctx context.Context, fields []string, conflictKeys []string, entities ...*T) <-chan error
	FindAsync(ctx context.Context, filter types.Filter, include types.Include) <-chan types.Result[*T]
	GetAsync(ctx context.Context, filter types.Filter, pageNumber, pageSize int, include types.Include) <-chan types.Result[[]*T]
	PageAsync(ctx context.Context, page *types.PageRequest) <-chan types.Result[*types.Pagination[T]]
	CountAsync(ctx context.Context, filter types.Filter) <-chan types.Result[int]
	ExistsAsync(ctx context.Context, filter types.Filter) <-chan types.Result[bool]
	SaveAsync(ctx context.Context) <-chan error
}

// Repository combines staging, querying and committing for one entity type.
type Repository[T any] interface {
	CrudRepository[T]
	QueryRepository[T]
	UnitOfWork
	AsyncRepository[T]
}
