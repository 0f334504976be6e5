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

package types

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// CreatedAtColumn is the BaseEntity creation column. Updates never write it.
const CreatedAtColumn = "created_at"

// Entity is the shape every record stored through a repository must have.
type Entity interface {
	GetID() int64
	GetCreatedAt() time.Time
	// GetUpdatedAt returns nil while the entity was never modified.
	GetUpdatedAt() *time.Time
}

// Touchable entities get their modification time stamped on update.
type Touchable interface {
	Touch(at time.Time)
}

// EntityPtr constrains a type parameter to a pointer to T implementing Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

// BaseEntity carries the identity and timestamp columns. Embed it next to
// bun.BaseModel:
//
//	type User struct {
//		bun.BaseModel `bun:"table:users,alias:u"`
//		types.BaseEntity
//		Name string `bun:"name,notnull"`
//	}
type BaseEntity struct {
	ID        int64      `bun:"id,pk,autoincrement" json:"id"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt *time.Time `bun:"updated_at" json:"updated_at,omitempty"`
}

// NewBaseEntity returns a BaseEntity created now.
func NewBaseEntity() BaseEntity {
	return BaseEntity{CreatedAt: time.Now()}
}

func (e *BaseEntity) GetID() int64 { return e.ID }

func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }

func (e *BaseEntity) GetUpdatedAt() *time.Time { return e.UpdatedAt }

// Touch sets UpdatedAt, never earlier than the in-memory CreatedAt. An
// entity built from its ID alone has a zero CreatedAt and is not clamped.
func (e *BaseEntity) Touch(at time.Time) {
	if at.Before(e.CreatedAt) {
		at = e.CreatedAt
	}
	e.UpdatedAt = &at
}

var _ bun.BeforeAppendModelHook = (*BaseEntity)(nil)

// BeforeAppendModel stamps CreatedAt on entities that were built without
// NewBaseEntity.
func (e *BaseEntity) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok && e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return nil
}
