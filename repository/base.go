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
	"math"
	"reflect"
	"time"

	"github.com/tomoncle/repokit/database"
	"github.com/tomoncle/repokit/types"
	"github.com/uptrace/bun"
)

type baseRepositoryImpl[T any, P types.EntityPtr[T]] struct {
	session *database.Session
	model   string
	now     func() time.Time
}

func newRepository[T any, P types.EntityPtr[T]](session *database.Session) *baseRepositoryImpl[T, P] {
	return &baseRepositoryImpl[T, P]{
		session: session,
		model:   reflect.TypeOf((*T)(nil)).Elem().Name(),
		now:     time.Now,
	}
}

func (r *baseRepositoryImpl[T, P]) ValsToSlice(entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}

func (r *baseRepositoryImpl[T, P]) Add(ctx context.Context, entity *T) error {
	if entity == nil {
		return invalidArgument("%s: entity cannot be nil", r.model)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.session.Stage(database.Change{
		Kind:  database.ChangeInsert,
		Model: r.model,
		Rows:  1,
		Apply: func(ctx context.Context, db bun.IDB) error {
			_, err := db.NewInsert().Model(entity).Exec(ctx)
			return err
		},
	})
}

func (r *baseRepositoryImpl[T, P]) AddRange(ctx context.Context, entities []*T) error {
	if err := r.checkBatch(entities, false); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := r.ValsToSlice(entities...)
	return r.session.Stage(database.Change{
		Kind:  database.ChangeInsert,
		Model: r.model,
		Rows:  len(batch),
		Apply: func(ctx context.Context, db bun.IDB) error {
			_, err := db.NewInsert().Model(&batch).Exec(ctx)
			return err
		},
	})
}

func (r *baseRepositoryImpl[T, P]) Update(ctx context.Context, entity *T) error {
	if err := r.checkIdentified(entity); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.session.Stage(database.Change{
		Kind:  database.ChangeUpdate,
		Model: r.model,
		Rows:  1,
		Apply: func(ctx context.Context, db bun.IDB) error {
			if t, ok := any(P(entity)).(types.Touchable); ok {
				t.Touch(r.now())
			}
			_, err := db.NewUpdate().
				Model(entity).
				ExcludeColumn(types.CreatedAtColumn).
				WherePK().
				Exec(ctx)
			return err
		},
	})
}

func (r *baseRepositoryImpl[T, P]) Remove(ctx context.Context, entity *T) error {
	if err := r.checkIdentified(entity); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.session.Stage(database.Change{
		Kind:  database.ChangeDelete,
		Model: r.model,
		Rows:  1,
		Apply: func(ctx context.Context, db bun.IDB) error {
			_, err := db.NewDelete().Model(entity).WherePK().Exec(ctx)
			return err
		},
	})
}

func (r *baseRepositoryImpl[T, P]) RemoveRange(ctx context.Context, entities []*T) error {
	if err := r.checkBatch(entities, true); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := r.ValsToSlice(entities...)
	return r.session.Stage(database.Change{
		Kind:  database.ChangeDelete,
		Model: r.model,
		Rows:  len(batch),
		Apply: func(ctx context.Context, db bun.IDB) error {
			_, err := db.NewDelete().Model(&batch).WherePK().Exec(ctx)
			return err
		},
	})
}

func (r *baseRepositoryImpl[T, P]) Find(ctx context.Context, filter types.Filter, include types.Include) (*T, error) {
	if filter == nil {
		return nil, invalidArgument("%s: find requires a filter", r.model)
	}
	db, err := r.session.DB()
	if err != nil {
		return nil, err
	}
	var entities []*T
	// Two rows are enough to tell "one" from "many".
	err = types.Apply(db.NewSelect().Model(&entities), filter, include).
		Limit(2).
		Scan(ctx)
	if err != nil {
		return nil, r.readErr(err)
	}
	switch len(entities) {
	case 0:
		return nil, nil
	case 1:
		return entities[0], nil
	default:
		return nil, fmt.Errorf("%w: %s filter matched more than one row", ErrMultipleResults, r.model)
	}
}

func (r *baseRepositoryImpl[T, P]) Get(ctx context.Context, filter types.Filter, pageNumber, pageSize int, include types.Include) ([]*T, error) {
	if err := r.checkPage(pageNumber, pageSize); err != nil {
		return nil, err
	}
	db, err := r.session.DB()
	if err != nil {
		return nil, err
	}
	entities := make([]*T, 0)
	err = types.Apply(db.NewSelect().Model(&entities), filter, include).
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Scan(ctx)
	if err != nil {
		return nil, r.readErr(err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T, P]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	if pageRequest == nil {
		return nil, invalidArgument("%s: page request cannot be nil", r.model)
	}
	if err := r.checkPage(pageRequest.GetPage(), pageRequest.GetPageSize()); err != nil {
		return nil, err
	}
	db, err := r.session.DB()
	if err != nil {
		return nil, err
	}

	// Join relations from the include must be present for filters that refer to them.
	total, err := types.Apply(db.NewSelect().Model((*T)(nil)), pageRequest.GetFilter(), pageRequest.GetInclude()).Count(ctx)
	if err != nil {
		return nil, r.readErr(err)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	pagination.Total = total
	if total == 0 || pageRequest.GetOffset() >= total {
		return pagination, nil
	}

	var entities []*T
	query := types.Apply(db.NewSelect().Model(&entities), pageRequest.GetFilter(), pageRequest.GetInclude())
	if orders := pageRequest.GetOrders(); len(orders) > 0 {
		query = query.Order(orders...)
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, r.readErr(err)
	}
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T, P]) Count(ctx context.Context, filter types.Filter) (int, error) {
	db, err := r.session.DB()
	if err != nil {
		return 0, err
	}
	count, err := types.Apply(db.NewSelect().Model((*T)(nil)), filter, nil).Count(ctx)
	return count, r.readErr(err)
}

func (r *baseRepositoryImpl[T, P]) Exists(ctx context.Context, filter types.Filter) (bool, error) {
	if filter == nil {
		return false, invalidArgument("%s: exists requires a filter", r.model)
	}
	db, err := r.session.DB()
	if err != nil {
		return false, err
	}
	exists, err := types.Apply(db.NewSelect().Model((*T)(nil)), filter, nil).Exists(ctx)
	return exists, r.readErr(err)
}

func (r *baseRepositoryImpl[T, P]) Save(ctx context.Context) error {
	return r.session.Commit(ctx)
}

func (r *baseRepositoryImpl[T, P]) Discard() {
	r.session.Discard()
}

// readErr reports a read that lost its connection to Close as ErrClosed.
func (r *baseRepositoryImpl[T, P]) readErr(err error) error {
	if err != nil && r.session.Closed() {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return err
}

func (r *baseRepositoryImpl[T, P]) checkIdentified(entity *T) error {
	if entity == nil {
		return invalidArgument("%s: entity cannot be nil", r.model)
	}
	if P(entity).GetID() == 0 {
		return invalidArgument("%s: entity has no id", r.model)
	}
	return nil
}

// checkBatch validates the whole batch up front so nothing is staged on error.
func (r *baseRepositoryImpl[T, P]) checkBatch(entities []*T, needID bool) error {
	if len(entities) == 0 {
		return invalidArgument("%s: entities cannot be empty", r.model)
	}
	for i, entity := range entities {
		if entity == nil {
			return invalidArgument("%s: entity at index %d is nil", r.model, i)
		}
		if needID && P(entity).GetID() == 0 {
			return invalidArgument("%s: entity at index %d has no id", r.model, i)
		}
	}
	return nil
}

func (r *baseRepositoryImpl[T, P]) checkPage(pageNumber, pageSize int) error {
	if pageNumber < 1 {
		return invalidArgument("%s: page number must be >= 1, got %d", r.model, pageNumber)
	}
	if pageSize < 1 {
		return invalidArgument("%s: page size must be >= 1, got %d", r.model, pageSize)
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return invalidArgument("%s: page %d of size %d is out of range", r.model, pageNumber, pageSize)
	}
	return nil
}
