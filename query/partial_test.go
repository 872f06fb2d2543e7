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
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/tomoncle/jobly/types"
)

func TestPartialUpdate(t *testing.T) {
	data := Fields{
		{Name: "name", Value: "apple"},
		{Name: "description", Value: "tech company"},
		{Name: "numEmployees", Value: 2},
	}

	set, err := PartialUpdate(data, map[string]string{"numEmployees": "num_employees"})
	require.NoError(t, err)
	assert.Equal(t, `"name"=$1, "description"=$2, "num_employees"=$3`, set.SetCols)
	assert.Equal(t, []any{"apple", "tech company", 2}, set.Values)
	assert.Equal(t, 3, set.Len())
}

func TestPartialUpdateUnmappedNamesPassThrough(t *testing.T) {
	set, err := PartialUpdate(Fields{{Name: "title", Value: "x"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `"title"=$1`, set.SetCols)
}

func TestPartialUpdateNoData(t *testing.T) {
	_, err := PartialUpdate(Fields{}, map[string]string{"numEmployees": "num_employees"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrBadRequest))
	assert.Equal(t, "No data", err.Error())

	_, err = PartialUpdate(nil, nil)
	assert.Equal(t, 400, types.StatusOf(err))
}

func TestPartialUpdateOffsetAndNull(t *testing.T) {
	set, err := PartialUpdate(Fields{
		{Name: "logoUrl", Value: nil},
		{Name: "name", Value: "New"},
	}, map[string]string{"logoUrl": "logo_url"}, WithOffset(2))
	require.NoError(t, err)
	assert.Equal(t, `"logo_url"=$3, "name"=$4`, set.SetCols)
	assert.Equal(t, []any{nil, "New"}, set.Values)
}

func TestPartialUpdateDialects(t *testing.T) {
	data := Fields{{Name: "firstName", Value: "A"}, {Name: "age", Value: 3}}
	js := map[string]string{"firstName": "first_name"}

	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{"default", nil, `"first_name"=$1, "age"=$2`},
		{"postgres", Postgres, `"first_name"=$1, "age"=$2`},
		{"bun pg", FromBun(pgdialect.New()), `"first_name"=?, "age"=?`},
		{"bun sqlite", FromBun(sqlitedialect.New()), `"first_name"=?, "age"=?`},
		{"bun mysql", FromBun(mysqldialect.New()), "`first_name`=?, `age`=?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := PartialUpdate(data, js, WithDialect(tt.dialect))
			require.NoError(t, err)
			assert.Equal(t, tt.want, set.SetCols)
			assert.Equal(t, []any{"A", 3}, set.Values)
		})
	}
}

func TestQuoteIdentEscapesQuote(t *testing.T) {
	assert.Equal(t, `"we""ird"`, Postgres.QuoteIdent(`we"ird`))
	assert.Equal(t, "`a``b`", FromBun(mysqldialect.New()).QuoteIdent("a`b"))
}
