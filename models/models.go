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

// Package models holds the bun entities of jobly and the request payloads
// accepted by the HTTP API.
package models

import (
	"github.com/tomoncle/jobly/database"
)

func init() {
	database.RegisteredModel(database.NewModelAdapter((*Company)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*User)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Job)(nil), 20))
	database.RegisteredModel(database.NewModelAdapter((*Application)(nil), 30))

	database.RegisterForeignKey(database.ForeignKeyConstraint{
		Table:           "jobs",
		Column:          "company_handle",
		ReferenceTable:  "companies",
		ReferenceColumn: "handle",
		OnDelete:        "CASCADE",
	})
	database.RegisterForeignKey(database.ForeignKeyConstraint{
		Table:           "applications",
		Column:          "username",
		ReferenceTable:  "users",
		ReferenceColumn: "username",
		OnDelete:        "CASCADE",
	})
	database.RegisterForeignKey(database.ForeignKeyConstraint{
		Table:           "applications",
		Column:          "job_id",
		ReferenceTable:  "jobs",
		ReferenceColumn: "id",
		OnDelete:        "CASCADE",
	})
}
