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

package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/tomoncle/jobly/types"
)

func TestSearchNumbersByPosition(t *testing.T) {
	// only max and name supplied: indexes must follow the emitted order, not the input keys
	conds := Conditions{}.
		Add("num_employees", "<", 50).
		Add("name", Contains, "Baker")

	where, err := Search(conds)
	require.NoError(t, err)
	assert.Equal(t, `"num_employees" < $1 AND LOWER("name") LIKE $2`, where.Where)
	assert.Equal(t, []any{50, "%baker%"}, where.Values)
	assert.False(t, where.Empty())
}

func TestSearchAllOperators(t *testing.T) {
	for _, op := range []string{"=", "<>", "<", "<=", ">", ">=", "LIKE", "like"} {
		where, err := Search(Conditions{{Column: "c", Op: op, Value: 1}})
		require.NoError(t, err, op)
		assert.Contains(t, where.Where, `"c" `)
	}
}

func TestSearchRejectsUnknownOperator(t *testing.T) {
	_, err := Search(Conditions{{Column: "c", Op: "; DROP", Value: 1}})
	require.Error(t, err)
	assert.Equal(t, 500, types.StatusOf(err))
}

func TestSearchNoData(t *testing.T) {
	_, err := Search(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrBadRequest))
}

func TestSearchOffsetNumbered(t *testing.T) {
	where, err := Search(Conditions{}.Add("salary", ">=", 10).Add("equity", ">", 0),
		WithOffset(1), WithDialect(Postgres))
	require.NoError(t, err)
	assert.Equal(t, `"salary" >= $2 AND "equity" > $3`, where.Where)
}

func TestSearchOffsetWithBunDialect(t *testing.T) {
	conds := Conditions{}.Add("salary", ">=", 10).Add("title", Contains, "Eng")

	where, err := Search(conds, WithOffset(2), WithDialect(FromBun(sqlitedialect.New())))
	require.NoError(t, err)
	assert.Equal(t, `"salary" >= ? AND LOWER("title") LIKE ?`, where.Where)
	assert.Equal(t, []any{10, "%eng%"}, where.Values)

	where, err = Search(conds, WithOffset(2), WithDialect(FromBun(mysqldialect.New())))
	require.NoError(t, err)
	assert.Equal(t, "`salary` >= ? AND LOWER(`title`) LIKE ?", where.Where)
}
