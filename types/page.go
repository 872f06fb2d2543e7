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
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize within int64.
	MaxPage         = math.MaxInt32
)

// PageRequest describes a page of a listing and its ordering.
type PageRequest struct {
	page     int
	pageSize int
	orders   []string // "name ASC", "id DESC"
}

// NewPageRequest constructs a PageRequest. Out of range values are clamped by the getters.
func NewPageRequest(page int, pageSize int, orders ...string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, orders: orders}
}

func (p *PageRequest) GetPage() int {
	switch {
	case p.page < 1:
		return 1
	case p.page > MaxPage:
		return MaxPage
	default:
		return p.page
	}
}

func (p *PageRequest) GetPageSize() int {
	switch {
	case p.pageSize < 1:
		return DefaultPageSize
	case p.pageSize > MaxPageSize:
		return MaxPageSize
	default:
		return p.pageSize
	}
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// WithOrders returns a copy of p ordered by orders when p has none of its own.
func (p *PageRequest) WithOrders(orders ...string) *PageRequest {
	if len(p.orders) > 0 {
		return p
	}
	return &PageRequest{page: p.page, pageSize: p.pageSize, orders: orders}
}

// Pagination holds one page of items along with paging metadata.
type Pagination[T any] struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	Items      []*T `json:"-"`
}

// NewPagination constructs an empty page for the request.
func NewPagination[T any](req *PageRequest) *Pagination[T] {
	return &Pagination[T]{Page: req.GetPage(), PageSize: req.GetPageSize(), Items: make([]*T, 0)}
}

// SetTotal records the total row count and derives TotalPages.
func (p *Pagination[T]) SetTotal(total int) {
	p.Total = total
	if p.PageSize > 0 {
		p.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
}
