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

import "github.com/uptrace/bun"

// Filter narrows a select query. A nil Filter means "no predicate".
type Filter func(q *bun.SelectQuery) *bun.SelectQuery

// Include adds eager loading to a select query, typically via Relation.
type Include func(q *bun.SelectQuery) *bun.SelectQuery

// QueryFilter describes a WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

// Filter converts the clause into a Filter. A nil receiver yields nil.
func (f *QueryFilter) Filter() Filter {
	if f == nil {
		return nil
	}
	return Where(f.Schema, f.Args...)
}

// Where returns a Filter applying a single WHERE clause.
func Where(query string, args ...interface{}) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(query, args...)
	}
}

// OrderBy returns a Filter that only orders, e.g. OrderBy("id ASC").
func OrderBy(orders ...string) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order(orders...)
	}
}

// And chains filters; nil entries are skipped and an all-nil list yields nil.
func And(filters ...Filter) Filter {
	var active []Filter
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, f := range active {
			q = f(q)
		}
		return q
	}
}

// Relations eagerly loads the named bun relations.
func Relations(names ...string) Include {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, name := range names {
			q = q.Relation(name)
		}
		return q
	}
}

// Apply runs include then filter on q, skipping nil fragments.
func Apply(q *bun.SelectQuery, filter Filter, include Include) *bun.SelectQuery {
	if include != nil {
		q = include(q)
	}
	if filter != nil {
		q = filter(q)
	}
	return q
}
