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

package jobly

import (
	"context"
	"errors"
	"sync"

	"github.com/tomoncle/jobly/database"
	"github.com/tomoncle/jobly/query"
	"github.com/tomoncle/jobly/repository"
	"github.com/tomoncle/jobly/types"
	"github.com/uptrace/bun"
)

// ErrNoDatabase is returned by services built without a database while the
// global database is not initialized.
var ErrNoDatabase = errors.New("jobly: database not initialized")

// baseService wraps a repository with the search and patch plumbing shared
// by the domain services. A nil db resolves to the global database on first
// use; until InitDB has run every call fails with ErrNoDatabase.
type baseService[T any] struct {
	db   bun.IDB
	repo repository.Repository[T]
	mu   sync.Mutex
}

func newBaseService[T any](db bun.IDB) *baseService[T] {
	return &baseService[T]{db: db}
}

func (s *baseService[T]) baseRepo() (repository.Repository[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		return s.repo, nil
	}
	db := s.db
	if db == nil {
		// GetDB returns a typed nil before InitDB.
		if global := database.GetDB(); global != nil {
			db = global
		}
	}
	if db == nil {
		return nil, ErrNoDatabase
	}
	s.repo = repository.NewRepository[T](db)
	return s.repo, nil
}

// where renders conds for this repository; no conditions means no filter.
func (s *baseService[T]) where(conds query.Conditions) (query.WhereClause, error) {
	if len(conds) == 0 {
		return query.WhereClause{}, nil
	}
	repo, err := s.baseRepo()
	if err != nil {
		return query.WhereClause{}, err
	}
	return query.Search(conds, query.WithDialect(repo.Dialect()))
}

// find lists the rows matching conds. Without a page request every row is
// returned as a single page.
func (s *baseService[T]) find(ctx context.Context, conds query.Conditions, page *types.PageRequest, orders ...string) (*types.Pagination[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	where, err := s.where(conds)
	if err != nil {
		return nil, err
	}
	if page != nil {
		return repo.Page(ctx, where, page.WithOrders(orders...))
	}

	items, err := repo.List(ctx, where, orders...)
	if err != nil {
		return nil, err
	}
	p := &types.Pagination[T]{Page: 1, PageSize: len(items), Items: items}
	p.SetTotal(len(items))
	return p, nil
}

// getOne returns the row where key = id.
func (s *baseService[T]) getOne(ctx context.Context, key string, id any) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetOne(ctx, key, id)
}

func (s *baseService[T]) exists(ctx context.Context, key string, id any) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.Exists(ctx, key, id)
}

func (s *baseService[T]) list(ctx context.Context, where query.WhereClause, orders ...string) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, where, orders...)
}

func (s *baseService[T]) create(ctx context.Context, entity *T) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Create(ctx, entity)
}

func (s *baseService[T]) remove(ctx context.Context, key string, id any) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Delete(ctx, key, id)
}

// patch applies the populated fields of fields to the row where key = id.
func (s *baseService[T]) patch(ctx context.Context, key string, id any, fields query.Fields, columns map[string]string) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	set, err := query.PartialUpdate(fields, columns, query.WithDialect(repo.Dialect()))
	if err != nil {
		return nil, err
	}
	return repo.Patch(ctx, key, id, set)
}
