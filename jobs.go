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

package jobly

import (
	"context"

	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/query"
	"github.com/tomoncle/jobly/types"
	"github.com/uptrace/bun"
)

// JobService manages job postings.
type JobService struct {
	jobs      *baseService[models.Job]
	companies *baseService[models.Company]
}

func NewJobService(db bun.IDB) *JobService {
	return &JobService{
		jobs:      newBaseService[models.Job](db),
		companies: newBaseService[models.Company](db),
	}
}

// Create posts a job for an existing company.
func (s *JobService) Create(ctx context.Context, in *models.NewJob) (*models.Job, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	exists, err := s.companies.exists(ctx, "handle", in.CompanyHandle)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.BadRequest("No company: %s", in.CompanyHandle)
	}

	j := in.Job()
	if err := s.jobs.create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// FindAll lists jobs ordered by id. title is a case-insensitive substring
// match, minSalary is inclusive and hasEquity=true keeps jobs with equity > 0.
func (s *JobService) FindAll(ctx context.Context, f models.JobFilter, page *types.PageRequest) (*types.Pagination[models.Job], error) {
	if err := models.Validate(&f); err != nil {
		return nil, err
	}

	var conds query.Conditions
	if f.Title != "" {
		conds = conds.Add("title", query.Contains, f.Title)
	}
	if f.MinSalary != nil {
		conds = conds.Add("salary", ">=", *f.MinSalary)
	}
	if f.HasEquity != nil && *f.HasEquity {
		conds = conds.Add("equity", ">", 0)
	}
	return s.jobs.find(ctx, conds, page, "id")
}

func (s *JobService) Get(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobs.getOne(ctx, "id", id)
}

// Update changes title, salary or equity of a job.
func (s *JobService) Update(ctx context.Context, id int64, p *models.JobPatch) (*models.Job, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	return s.jobs.patch(ctx, "id", id, query.FieldsOf(p), models.JobColumns)
}

func (s *JobService) Remove(ctx context.Context, id int64) error {
	return s.jobs.remove(ctx, "id", id)
}
