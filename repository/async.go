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

func (r *baseRepositoryImpl[T, P]) AddAsync(ctx context.Context, entity *T) <-chan error {
	return types.GoErr(func() error { return r.Add(ctx, entity) })
}

func (r *baseRepositoryImpl[T, P]) AddRangeAsync(ctx context.Context, entities []*T) <-chan error {
	return types.GoErr(func() error { return r.AddRange(ctx, entities) })
}

func (r *baseRepositoryImpl[T, P]) UpdateAsync(ctx context.Context, entity *T) <-chan error {
	return types.GoErr(func() error { return r.Update(ctx, entity) })
}

func (r *baseRepositoryImpl[T, P]) RemoveAsync(ctx context.Context, entity *T) <-chan error {
	return types.GoErr(func() error { return r.Remove(ctx, entity) })
}

func (r *baseRepositoryImpl[T, P]) RemoveRangeAsync(ctx context.Context, entities []*T) <-chan error {
	return types.GoErr(func() error { return r.RemoveRange(ctx, entities) })
}

func (r *baseRepositoryImpl[T, P]) UpsertAsync(ctx context.Context, fields []string, conflictKeys []string, entities ...*T) <-chan error {
	return types.GoErr(func() error { return r.Upsert(ctx, fields, conflictKeys, entities...) })
}

func (r *baseRepositoryImpl[T, P]) FindAsync(ctx context.Context, filter types.Filter, include types.Include) <-chan types.Result[*T] {
	return types.Go(func() (*T, error) { return r.Find(ctx, filter, include) })
}

func (r *baseRepositoryImpl[T, P]) GetAsync(ctx context.Context, filter types.Filter, pageNumber, pageSize int, include types.Include) <-chan types.Result[[]*T] {
	return types.Go(func() ([]*T, error) { return r.Get(ctx, filter, pageNumber, pageSize, include) })
}

func (r *baseRepositoryImpl[T, P]) PageAsync(ctx context.Context, page *types.PageRequest) <-chan types.Result[*types.Pagination[T]] {
	return types.Go(func() (*types.Pagination[T], error) { return r.Page(ctx, page) })
}

func (r *baseRepositoryImpl[T, P]) CountAsync(ctx context.Context, filter types.Filter) <-chan types.Result[int] {
	return types.Go(func() (int, error) { return r.Count(ctx, filter) })
}

func (r *baseRepositoryImpl[T, P]) ExistsAsync(ctx context.Context, filter types.Filter) <-chan types.Result[bool] {
	return types.Go(func() (bool, error) { return r.Exists(ctx, filter) })
}

func (r *baseRepositoryImpl[T, P]) SaveAsync(ctx context.Context) <-chan error {
	return types.GoErr(func() error { return r.Save(ctx) })
}
