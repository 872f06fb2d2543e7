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

// JobColumns maps job JSON names to columns for partial updates.
var JobColumns = map[string]string{
	"companyHandle": "company_handle",
}

type Job struct {
	bun.BaseModel `bun:"table:jobs"`

	ID            int64    `bun:"id,pk,autoincrement" json:"id"`
	Title         string   `bun:"title,notnull" json:"title"`
	Salary        *int     `bun:"salary" json:"salary"`
	Equity        *float64 `bun:"equity" json:"equity"`
	CompanyHandle string   `bun:"company_handle,notnull,type:varchar(25)" json:"companyHandle"`
}

// JobSummary is a job as listed under its company.
type JobSummary struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Salary *int     `json:"salary"`
	Equity *float64 `json:"equity"`
}

func (j *Job) Summary() JobSummary {
	return JobSummary{ID: j.ID, Title: j.Title, Salary: j.Salary, Equity: j.Equity}
}

type NewJob struct {
	Title         string   `json:"title" validate:"required,min=1"`
	Salary        *int     `json:"salary" validate:"omitempty,min=0"`
	Equity        *float64 `json:"equity" validate:"omitempty,min=0,max=1"`
	CompanyHandle string   `json:"companyHandle" validate:"required,min=1,max=25"`
}

func (n *NewJob) Job() *Job {
	return &Job{
		Title:         n.Title,
		Salary:        n.Salary,
		Equity:        n.Equity,
		CompanyHandle: n.CompanyHandle,
	}
}

// JobPatch has no companyHandle: a job never moves to another company.
type JobPatch struct {
	Title  *string                 `json:"title" validate:"omitempty,min=1"`
	Salary query.Optional[int]     `json:"salary" validate:"omitempty,min=0"`
	Equity query.Optional[float64] `json:"equity" validate:"omitempty,min=0,max=1"`
}

type JobFilter struct {
	Title     string `json:"title"`
	MinSalary *int   `json:"minSalary" validate:"omitempty,min=0"`
	HasEquity *bool  `json:"hasEquity"`
}

// IsZero reports whether the filter selects every job. hasEquity=false
// filters nothing.
func (f JobFilter) IsZero() bool {
	return f.Title == "" && f.MinSalary == nil && (f.HasEquity == nil || !*f.HasEquity)
}
