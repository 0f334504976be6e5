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

import "math"

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// PageRequest describes pagination, optional filter, eager loading and
// ordering. Values are kept as given; repositories reject page or size < 1.
type PageRequest struct {
	page     int
	pageSize int
	filter   Filter
	include  Include
	orders   []string // "id ASC", "name DESC"
}

func (p *PageRequest) GetPageSize() int { return p.pageSize }

func (p *PageRequest) GetPage() int { return p.page }

// GetOffset returns how many matching rows precede this page.
func (p *PageRequest) GetOffset() int {
	if p.page < 1 || p.pageSize < 1 {
		return 0
	}
	if p.page-1 > math.MaxInt/p.pageSize {
		return math.MaxInt
	}
	return (p.page - 1) * p.pageSize
}

func (p *PageRequest) GetFilter() Filter { return p.filter }

func (p *PageRequest) GetInclude() Include { return p.include }

func (p *PageRequest) GetOrders() []string { return p.orders }

// WithInclude sets the eager-loading fragment and returns p.
func (p *PageRequest) WithInclude(include Include) *PageRequest {
	p.include = include
	return p
}

// NewPageRequest constructs a PageRequest with filter and order settings.
func NewPageRequest(page int, pageSize int, filter Filter, orders []string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, filter: filter, orders: orders}
}

// NewPageRequestWithFilter constructs a PageRequest with a filter only.
func NewPageRequestWithFilter(page int, pageSize int, filter Filter) *PageRequest {
	return NewPageRequest(page, pageSize, filter, nil)
}

// NewPageRequestWithOrders constructs a PageRequest with ordering only.
func NewPageRequestWithOrders(page int, pageSize int, orders []string) *PageRequest {
	return NewPageRequest(page, pageSize, nil, orders)
}

// NewDefaultPageRequest returns the first page of DefaultPageSize items.
func NewDefaultPageRequest() *PageRequest {
	return NewPageRequest(DefaultPageNumber, DefaultPageSize, nil, nil)
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}

// TotalPages returns the number of pages needed for Total items.
func (p *Pagination[T]) TotalPages() int {
	if p.PageSize < 1 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func (p *Pagination[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}
