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
	"strconv"
	"strings"

	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// Dialect renders identifiers and positional placeholders.
type Dialect interface {
	QuoteIdent(name string) string
	Placeholder(n int) string
}

type numbered struct{}

// Postgres quotes identifiers with double quotes and numbers placeholders $1, $2, ...
var Postgres Dialect = numbered{}

func (numbered) QuoteIdent(name string) string { return quoteWith(name, '"') }

func (numbered) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

type bunDialect struct {
	quote byte
}

// FromBun adapts a bun dialect. Placeholders are rendered as "?" so that bun
// formats the arguments itself, which works the same on every driver.
func FromBun(d schema.Dialect) Dialect {
	if d != nil && d.Name() == dialect.MySQL {
		return bunDialect{quote: '`'}
	}
	return bunDialect{quote: '"'}
}

func (d bunDialect) QuoteIdent(name string) string { return quoteWith(name, d.quote) }

func (bunDialect) Placeholder(int) string { return "?" }

func quoteWith(name string, q byte) string {
	s := string(q)
	return s + strings.ReplaceAll(name, s, s+s) + s
}
