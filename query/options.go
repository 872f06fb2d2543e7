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

type options struct {
	dialect Dialect
	offset  int
}

// Option customises how a fragment is rendered.
type Option func(*options)

// WithDialect selects identifier quoting and placeholder style. Postgres is the default.
func WithDialect(d Dialect) Option {
	return func(o *options) {
		if d != nil {
			o.dialect = d
		}
	}
}

// WithOffset starts placeholder numbering at n+1, for fragments that follow
// n arguments already bound by the caller.
func WithOffset(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.offset = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{dialect: Postgres}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
