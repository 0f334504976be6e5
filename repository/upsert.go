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
	"strings"

	"github.com/tomoncle/repokit/database"
	"github.com/tomoncle/repokit/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
)

type upsertFunc[T any] func(ctx context.Context, db bun.IDB, entities []*T) error

func (r *baseRepositoryImpl[T, P]) Upsert(ctx context.Context, fields []string, conflictKeys []string, entity ...*T) error {
	fields = withoutColumn(fields, types.CreatedAtColumn)
	if len(fields) == 0 {
		return invalidArgument("%s: upsert fields cannot be empty", r.model)
	}
	if err := r.checkBatch(entity, false); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	db, err := r.session.DB()
	if err != nil {
		return err
	}

	var apply upsertFunc[T]
	if db.HasFeature(feature.InsertOnConflict) {
		apply = r.upsertWithPostgresqlOrSQLite(fields, conflictKeys)
	} else if db.HasFeature(feature.InsertOnDuplicateKey) {
		apply = r.upsertWithMySQL(fields)
	} else {
		apply = r.upsertFallback
	}

	entities := r.ValsToSlice(entity...)
	return r.session.Stage(database.Change{
		Kind:  database.ChangeUpsert,
		Model: r.model,
		Rows:  len(entities),
		Apply: func(ctx context.Context, db bun.IDB) error {
			return apply(ctx, db, entities)
		},
	})
}

// withoutColumn drops column from fields; created_at is written once on insert.
func withoutColumn(fields []string, column string) []string {
	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		if !strings.EqualFold(strings.TrimSpace(field), column) {
			kept = append(kept, field)
		}
	}
	return kept
}

func (r *baseRepositoryImpl[T, P]) upsertWithMySQL(fields []string) upsertFunc[T] {
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	clause := "DUPLICATE KEY UPDATE " + strings.Join(queryArgs, ", ")
	return func(ctx context.Context, db bun.IDB, entities []*T) error {
		_, err := db.NewInsert().
			Model(&entities).
			On(clause).
			Exec(ctx)
		return err
	}
}

func (r *baseRepositoryImpl[T, P]) upsertWithPostgresqlOrSQLite(fields []string, conflictKeys []string) upsertFunc[T] {
	if len(conflictKeys) == 0 {
		conflictKeys = []string{"id"}
	}
	var queryArgs []string
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	conflict := "CONFLICT (" + strings.Join(conflictKeys, ", ") + ") DO UPDATE"
	set := strings.Join(queryArgs, ", ")
	return func(ctx context.Context, db bun.IDB, entities []*T) error {
		_, err := db.NewInsert().
			Model(&entities).
			On(conflict).
			Set(set).
			Exec(ctx)
		return err
	}
}

// upsertFallback checks the primary key first; a failed insert would abort
// the surrounding transaction on some engines.
func (r *baseRepositoryImpl[T, P]) upsertFallback(ctx context.Context, db bun.IDB, entities []*T) error {
	for _, entity := range entities {
		exists := false
		if P(entity).GetID() != 0 {
			var err error
			exists, err = db.NewSelect().Model(entity).WherePK().Exists(ctx)
			if err != nil {
				return err
			}
		}
		if exists {
			_, err := db.NewUpdate().
				Model(entity).
				ExcludeColumn(types.CreatedAtColumn).
				WherePK().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("upsert %s id=%d: %w", r.model, P(entity).GetID(), err)
			}
			continue
		}
		if _, err := db.NewInsert().Model(entity).Exec(ctx); err != nil {
			return fmt.Errorf("upsert %s: %w", r.model, err)
		}
	}
	return nil
}
