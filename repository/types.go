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

	"github.com/tomoncle/jobly/query"
	"github.com/tomoncle/jobly/types"
	"github.com/uptrace/bun"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
// key is the column identifying a row, id its value.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, key string, id any) (*T, error)

	GetAll(ctx context.Context, orders ...string) ([]*T, error)

	List(ctx context.Context, where query.WhereClause, orders ...string) ([]*T, error)

	Exists(ctx context.Context, key string, id any) (bool, error)

	Create(ctx context.Context, entity ...*T) error

	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error

	Patch(ctx context.Context, key string, id any, set query.SetClause) (*T, error)

	Delete(ctx context.Context, key string, id any) error
}

// TransactionRepository runs repository work inside a transaction.
type TransactionRepository[T any] interface {
	WithTx(tx bun.IDB) Repository[T]
	CreateWithTx(ctx context.Context, tx bun.IDB, entity ...*T) error
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
}

// PageQueryRepository defines pagination for listing entities. A zero
// WhereClause selects every row.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, where query.WhereClause, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines CRUD, pagination, and transactional operations and
// exposes bun query builders for the queries the generic methods do not cover.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	// Dialect renders identifiers and placeholders for clauses run through this repository.
	Dialect() query.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}
