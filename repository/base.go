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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/jobly/database"
	"github.com/tomoncle/jobly/query"
	"github.com/tomoncle/jobly/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db bun.IDB
}

// NewRepository returns a generic repository over db, which may be a *bun.DB or a bun.Tx.
func NewRepository[T any](db bun.IDB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

func (r *baseRepositoryImpl[T]) Dialect() query.Dialect { return query.FromBun(r.db.Dialect()) }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) table() *schema.Table {
	return r.db.Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem())
}

func (r *baseRepositoryImpl[T]) name() string {
	return strings.ReplaceAll(r.table().ModelName, "_", " ")
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, key string, id any) (*T, error) {
	entity := new(T)
	err := r.db.NewSelect().Model(entity).Where("? = ?", bun.Ident(key), id).Scan(ctx)
	if err != nil {
		return nil, r.translate(err, id)
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context, orders ...string) ([]*T, error) {
	entities := make([]*T, 0)
	err := r.db.NewSelect().Model(&entities).Order(orders...).Scan(ctx)
	if err != nil {
		return nil, r.translate(err, nil)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, where query.WhereClause, orders ...string) ([]*T, error) {
	entities := make([]*T, 0)
	q := r.db.NewSelect().Model(&entities).Order(orders...)
	if !where.Empty() {
		q = q.Where(where.Where, where.Values...)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, r.translate(err, nil)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, where query.WhereClause, page *types.PageRequest) (*types.Pagination[T], error) {
	if page == nil {
		page = types.NewPageRequest(1, types.DefaultPageSize)
	}
	entities := make([]*T, 0)
	q := r.db.NewSelect().Model(&entities)
	if !where.Empty() {
		q = q.Where(where.Where, where.Values...)
	}

	pagination := types.NewPagination[T](page)
	total, err := q.Count(ctx)
	if err != nil {
		return nil, r.translate(err, nil)
	}
	pagination.SetTotal(total)
	if total == 0 {
		return pagination, nil
	}

	err = q.
		Order(page.GetOrders()...).
		Offset(page.GetOffset()).
		Limit(page.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, r.translate(err, nil)
	}
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, key string, id any) (bool, error) {
	ok, err := r.db.NewSelect().Model((*T)(nil)).Where("? = ?", bun.Ident(key), id).Exists(ctx)
	if err != nil {
		return false, r.translate(err, id)
	}
	return ok, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	q := r.db.NewInsert()
	if len(entity) == 1 {
		q = q.Model(entity[0])
	} else {
		entities := append([]*T(nil), entity...)
		q = q.Model(&entities)
	}
	if _, err := q.Exec(ctx); err != nil {
		return r.translate(err, nil)
	}
	return nil
}

// Patch applies set to the row where key = id and returns the updated row.
// set must be rendered with Dialect so its placeholders are bun's.
func (r *baseRepositoryImpl[T]) Patch(ctx context.Context, key string, id any, set query.SetClause) (*T, error) {
	if set.Len() == 0 {
		return nil, types.BadRequest("No data")
	}
	var out *T
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*T)(nil)).
			Set(set.SetCols, set.Values...).
			Where("? = ?", bun.Ident(key), id).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}
		entity := new(T)
		if err := tx.NewSelect().Model(entity).Where("? = ?", bun.Ident(key), id).Scan(ctx); err != nil {
			return err
		}
		out = entity
		return nil
	})
	if err != nil {
		return nil, r.translate(err, id)
	}
	return out, nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, key string, id any) error {
	res, err := r.db.NewDelete().Model((*T)(nil)).Where("? = ?", bun.Ident(key), id).Exec(ctx)
	if err != nil {
		return r.translate(err, id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return r.translate(sql.ErrNoRows, id)
	}
	return nil
}

func (r *baseRepositoryImpl[T]) WithTx(tx bun.IDB) Repository[T] {
	return &baseRepositoryImpl[T]{db: tx}
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx bun.IDB, entity ...*T) error {
	return r.WithTx(tx).Create(ctx, entity...)
}

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, fn)
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entity) == 0 {
		return nil
	}
	entities := append([]*T(nil), entity...)

	var err error
	switch {
	case r.db.Dialect().Features().Has(feature.InsertOnConflict):
		err = r.upsertOnConflict(ctx, fields, duplicateKeys, entities)
	case r.db.Dialect().Features().Has(feature.InsertOnDuplicateKey):
		err = r.upsertOnDuplicateKey(ctx, fields, entities)
	default:
		err = r.upsertFallback(ctx, entities)
	}
	return r.translate(err, nil)
}

func (r *baseRepositoryImpl[T]) upsertOnDuplicateKey(ctx context.Context, fields []string, entities []*T) error {
	sets := make([]string, len(fields))
	args := make([]interface{}, 0, 2*len(fields))
	for i, field := range fields {
		sets[i] = "? = VALUES(?)"
		args = append(args, bun.Ident(field), bun.Ident(field))
	}
	_, err := r.db.NewInsert().
		Model(&entities).
		On("DUPLICATE KEY UPDATE "+strings.Join(sets, ", "), args...).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertOnConflict(ctx context.Context, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		for _, pk := range r.table().PKs {
			duplicateKeys = append(duplicateKeys, pk.Name)
		}
	}
	keys := make([]string, len(duplicateKeys))
	keyArgs := make([]interface{}, len(duplicateKeys))
	for i, k := range duplicateKeys {
		keys[i] = "?"
		keyArgs[i] = bun.Ident(k)
	}
	q := r.db.NewInsert().
		Model(&entities).
		On("CONFLICT ("+strings.Join(keys, ", ")+") DO UPDATE", keyArgs...)
	for _, field := range fields {
		q = q.Set("? = EXCLUDED.?", bun.Ident(field), bun.Ident(field))
	}
	_, err := q.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, entity := range entities {
		if _, err := r.db.NewInsert().Model(entity).Exec(ctx); err != nil {
			if _, updateErr := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
				return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %w", err, updateErr)
			}
		}
	}
	return nil
}

// translate turns driver errors caused by the caller's data into HTTP
// errors. Anything else is wrapped and left to surface as a 500.
func (r *baseRepositoryImpl[T]) translate(err error, id any) error {
	if err == nil {
		return nil
	}
	var he *types.HTTPError
	if errors.As(err, &he) {
		return err
	}

	_, kind := database.IsSqlError(err)
	switch kind {
	case database.NoRowsErr:
		if id == nil {
			return types.NotFound("No %s", r.name())
		}
		return types.NotFound("No %s: %v", r.name(), id)
	case database.DuplicateKeyErr:
		return types.BadRequest("Duplicate %s", r.name())
	case database.ForeignKeyViolationErr:
		return types.BadRequest("Invalid reference for %s", r.name())
	case database.NotNullViolationErr, database.CheckConstraintViolationErr,
		database.DataTruncatedErr, database.InvalidTypeCastErr:
		return types.BadRequest("Invalid %s: %s", r.name(), kind)
	}
	return fmt.Errorf("%s repository: %w", r.name(), err)
}
