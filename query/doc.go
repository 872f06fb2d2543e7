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

// Package query builds the SQL fragments used for partial updates and ad-hoc
// filters: an ordered list of column/value pairs becomes a parameterized
// fragment plus a positionally matched argument list.
//
//	set, _ := query.PartialUpdate(query.Fields{{"numEmployees", 10}, {"name", "x"}},
//		map[string]string{"numEmployees": "num_employees"})
//	// set.SetCols == `"num_employees"=$1, "name"=$2`
//	// set.Values  == []any{10, "x"}
package query
