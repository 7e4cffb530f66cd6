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
	"errors"
	"math"
)

// QueryFilter describes a WHERE clause schema and its argument values.
type QueryFilter struct {
	Schema string
	Args   []interface{}
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{schema, args}
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// maxOffset keeps the row offset within what every dialect accepts.
	maxOffset = math.MaxInt32
)

// ErrPageOutOfRange is returned by Validate when the page starts beyond maxOffset.
var ErrPageOutOfRange = errors.New("page out of range")

// PageRequest describes a 1-based page, its size, an optional filter and ordering.
type PageRequest struct {
	page     int
	pageSize int
	filter   *QueryFilter
	orders   []string // "member.id ASC", "team.name DESC"
}

// GetPageSize returns the page size, defaulting values below one and capping
// it at MaxPageSize.
func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = DefaultPageSize
	}
	if p.pageSize > MaxPageSize {
		p.pageSize = MaxPageSize
	}
	return p.pageSize
}

func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = DefaultPage
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// Validate rejects pages whose offset would not fit in a query.
func (p *PageRequest) Validate() error {
	if p.GetPage()-1 > maxOffset/p.GetPageSize() {
		return ErrPageOutOfRange
	}
	return nil
}

func (p *PageRequest) GetFilter() *QueryFilter {
	return p.filter
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// NewPageRequest constructs a PageRequest with ordering only.
func NewPageRequest(page int, pageSize int, orders ...string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, orders: orders}
}

// NewPageRequestWithFilter constructs a PageRequest with a filter and ordering.
func NewPageRequestWithFilter(page int, pageSize int, filter *QueryFilter, orders ...string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, filter: filter, orders: orders}
}

// Pagination holds one page of items along with pagination metadata.
type Pagination[T any] struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	Items    []*T `json:"items"`
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{page, pageSize, 0, make([]*T, 0)}
}

// PageTotal derives the total row count of a paged query from the size of
// the fetched page whenever that is possible, and falls back to count
// otherwise:
//   - first page shorter than the page size: the page is everything;
//   - later non-empty page shorter than the page size: it is the last page.
func PageTotal(offset, pageSize, contentLen int, count func() (int, error)) (int, error) {
	if offset == 0 {
		if pageSize > contentLen {
			return contentLen, nil
		}
		return count()
	}
	if contentLen != 0 && pageSize > contentLen {
		return offset + contentLen, nil
	}
	return count()
}
