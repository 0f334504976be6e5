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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

type gadget struct {
	bun.BaseModel `bun:"table:gadgets"`
	ID            int64 `bun:"id,pk,autoincrement"`
}

type part struct {
	bun.BaseModel `bun:"table:parts"`
	ID            int64 `bun:"id,pk,autoincrement"`
}

func TestModelRegistryOrdersByPriority(t *testing.T) {
	r := NewModelRegistry()
	r.Register(NewModelAdapter((*part)(nil), 20))
	r.Register(NewModelAdapter((*widget)(nil), 10))
	r.Register(NewModelAdapter((*gadget)(nil), 10))
	r.Register(NewModelAdapter((*widget)(nil), 0))
	r.Register(nil)
	r.Register(NewModelAdapter(nil, 0))

	instances := r.Instances()
	assert.Equal(t, []interface{}{(*widget)(nil), (*gadget)(nil), (*part)(nil)}, instances)
	assert.Equal(t, 10, r.Models()[0].Priority())
}

func TestDefaultRegistry(t *testing.T) {
	RegisterModel((*gadget)(nil), 5)
	RegisterModel((*gadget)(nil), 1)
	count := 0
	for _, m := range RegisteredModelInstances() {
		if _, ok := m.(*gadget); ok {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
