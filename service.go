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

package repokit

import (
	"context"
	"errors"

	"github.com/tomoncle/repokit/repository"
	"github.com/tomoncle/repokit/types"
	"github.com/uptrace/bun"
)

// Service runs every call in its own short unit of work over a shared DB:
// writes are staged and saved before the call returns.
type Service[T any] interface {
	// Get returns the single entity matching filter, or nil.
	Get(ctx context.Context, filter types.Filter) (*T, error)

	// List returns all entities matching filter in the given order.
	List(ctx context.Context, filter types.Filter, orders ...string) ([]*T, error)

	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, model ...*T) error

	// SaveOrUpdate upserts entities based on fields and conflict keys.
	SaveOrUpdate(ctx context.Context, fields []string, conflictKeys []string, model ...*T) error

	Update(ctx context.Context, model *T) error

	Delete(ctx context.Context, model ...*T) error
}

type baseServiceImpl[T any, P types.EntityPtr[T]] struct {
	db *bun.DB
}

// NewService returns a Service for T over db. The DB stays owned by the
// caller. Call it as NewService[User](db).
func NewService[T any, P types.EntityPtr[T]](db *bun.DB) Service[T] {
	return &baseServiceImpl[T, P]{db: db}
}

func (s *baseServiceImpl[T, P]) run(fn func(repo repository.Repository[T]) error) (err error) {
	f, err := repository.NewFactoryFromDB(s.db)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return fn(repository.CreateRepository[T, P](f))
}

func (s *baseServiceImpl[T, P]) Get(ctx context.Context, filter types.Filter) (entity *T, err error) {
	err = s.run(func(repo repository.Repository[T]) error {
		entity, err = repo.Find(ctx, filter, nil)
		return err
	})
	return entity, err
}

func (s *baseServiceImpl[T, P]) List(ctx context.Context, filter types.Filter, orders ...string) (entities []*T, err error) {
	err = s.run(func(repo repository.Repository[T]) error {
		total, err := repo.Count(ctx, filter)
		if err != nil {
			return err
		}
		if total == 0 {
			entities = []*T{}
			return nil
		}
		page, err := repo.Page(ctx, types.NewPageRequest(1, total, filter, orders))
		if err != nil {
			return err
		}
		entities = page.Items
		return nil
	})
	return entities, err
}

func (s *baseServiceImpl[T, P]) Page(ctx context.Context, page *types.PageRequest) (result *types.Pagination[T], err error) {
	err = s.run(func(repo repository.Repository[T]) error {
		result, err = repo.Page(ctx, page)
		return err
	})
	return result, err
}

func (s *baseServiceImpl[T, P]) Save(ctx context.Context, model ...*T) error {
	return s.run(func(repo repository.Repository[T]) error {
		if err := repo.AddRange(ctx, model); err != nil {
			return err
		}
		return repo.Save(ctx)
	})
}

func (s *baseServiceImpl[T, P]) SaveOrUpdate(ctx context.Context, fields []string, conflictKeys []string, model ...*T) error {
	return s.run(func(repo repository.Repository[T]) error {
		if err := repo.Upsert(ctx, fields, conflictKeys, model...); err != nil {
			return err
		}
		return repo.Save(ctx)
	})
}

func (s *baseServiceImpl[T, P]) Update(ctx context.Context, model *T) error {
	return s.run(func(repo repository.Repository[T]) error {
		if err := repo.Update(ctx, model); err != nil {
			return err
		}
		return repo.Save(ctx)
	})
}

func (s *baseServiceImpl[T, P]) Delete(ctx context.Context, model ...*T) error {
	return s.run(func(repo repository.Repository[T]) error {
		if err := repo.RemoveRange(ctx, model); err != nil {
			return err
		}
		return repo.Save(ctx)
	})
}
