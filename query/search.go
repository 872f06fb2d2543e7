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
	"fmt"
	"strings"

	"github.com/tomoncle/jobly/types"
)

// Contains is a case-insensitive substring match. The value is lowered and
// wrapped in % before binding.
const Contains = "CONTAINS"

var allowedOps = map[string]struct{}{
	"=": {}, "<>": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
	"LIKE": {}, Contains: {},
}

// Condition is a single "column op value" predicate.
type Condition struct {
	Column string
	Op     string
	Value  any
}

// Conditions is an ordered set of predicates joined with AND.
type Conditions []Condition

// Add appends a predicate.
func (c Conditions) Add(column, op string, value any) Conditions {
	return append(c, Condition{Column: column, Op: op, Value: value})
}

// WhereClause is the body of a WHERE and its arguments.
type WhereClause struct {
	Where  string
	Values []any
}

// Empty reports whether the clause filters nothing.
func (w WhereClause) Empty() bool { return w.Where == "" }

// Search renders conds as predicates joined by " AND ". Placeholders are
// numbered by each predicate's position in the output. An empty condition
// list is a caller error.
func Search(conds Conditions, opts ...Option) (WhereClause, error) {
	if len(conds) == 0 {
		return WhereClause{}, types.BadRequest("No data")
	}
	o := newOptions(opts)

	preds := make([]string, len(conds))
	values := make([]any, len(conds))
	for i, c := range conds {
		op := strings.ToUpper(strings.TrimSpace(c.Op))
		if _, ok := allowedOps[op]; !ok {
			return WhereClause{}, fmt.Errorf("query: unsupported operator %q for column %s", c.Op, c.Column)
		}
		col := o.dialect.QuoteIdent(c.Column)
		ph := o.dialect.Placeholder(o.offset + i + 1)
		if op == Contains {
			preds[i] = "LOWER(" + col + ") LIKE " + ph
			values[i] = "%" + strings.ToLower(fmt.Sprint(c.Value)) + "%"
			continue
		}
		preds[i] = col + " " + op + " " + ph
		values[i] = c.Value
	}
	return WhereClause{Where: strings.Join(preds, " AND "), Values: values}, nil
}
