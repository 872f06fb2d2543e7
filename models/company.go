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

package models

import (
	"github.com/tomoncle/jobly/query"
	"github.com/uptrace/bun"
)

// CompanyColumns maps company JSON names to columns for partial updates.
var CompanyColumns = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

type Company struct {
	bun.BaseModel `bun:"table:companies"`

	Handle       string  `bun:"handle,pk,type:varchar(25)" json:"handle"`
	Name         string  `bun:"name,notnull,unique" json:"name"`
	Description  string  `bun:"description,notnull" json:"description"`
	NumEmployees *int    `bun:"num_employees" json:"numEmployees"`
	LogoURL      *string `bun:"logo_url" json:"logoUrl"`
}

// CompanyDetail is a company with the jobs it posts.
type CompanyDetail struct {
	*Company
	Jobs []JobSummary `json:"jobs"`
}

type NewCompany struct {
	Handle       string  `json:"handle" validate:"required,min=1,max=25"`
	Name         string  `json:"name" validate:"required,min=1"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees" validate:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

// Company builds the row to insert.
func (n *NewCompany) Company() *Company {
	return &Company{
		Handle:       n.Handle,
		Name:         n.Name,
		Description:  n.Description,
		NumEmployees: n.NumEmployees,
		LogoURL:      n.LogoURL,
	}
}

// CompanyPatch updates any company field but the handle. numEmployees and
// logoUrl accept null.
type CompanyPatch struct {
	Name         *string                `json:"name" validate:"omitempty,min=1"`
	Description  *string                `json:"description"`
	NumEmployees query.Optional[int]    `json:"numEmployees" validate:"omitempty,min=0"`
	LogoURL      query.Optional[string] `json:"logoUrl" validate:"omitempty,url"`
}

type CompanyFilter struct {
	Name         string `json:"name"`
	MinEmployees *int   `json:"minEmployees" validate:"omitempty,min=0"`
	MaxEmployees *int   `json:"maxEmployees" validate:"omitempty,min=0"`
}

// IsZero reports whether no filter is set.
func (f CompanyFilter) IsZero() bool {
	return f.Name == "" && f.MinEmployees == nil && f.MaxEmployees == nil
}
