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
	"strings"

	"github.com/tomoncle/jobly/types"
)

// SetClause is the body of an UPDATE ... SET and its arguments.
type SetClause struct {
	SetCols string
	Values  []any
}

// Len is the number of bound arguments.
func (c SetClause) Len() int { return len(c.Values) }

// PartialUpdate renders data as `"col"=$N` fragments joined by ", ".
// jsToSQL maps field names to column names; unmapped names are used as is.
// An empty data set is a caller error.
func PartialUpdate(data Fields, jsToSQL map[string]string, opts ...Option) (SetClause, error) {
	if len(data) == 0 {
		return SetClause{}, types.BadRequest("No data")
	}
	o := newOptions(opts)

	cols := make([]string, len(data))
	values := make([]any, len(data))
	for i, f := range data {
		col := f.Name
		if mapped, ok := jsToSQL[f.Name]; ok && mapped != "" {
			col = mapped
		}
		cols[i] = o.dialect.QuoteIdent(col) + "=" + o.dialect.Placeholder(o.offset+i+1)
		values[i] = f.Value
	}
	return SetClause{SetCols: strings.Join(cols, ", "), Values: values}, nil
}
