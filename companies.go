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

// CompanyService manages companies.
type CompanyService struct {
	companies *baseService[models.Company]
	jobs      *baseService[models.Job]
}

func NewCompanyService(db bun.IDB) *CompanyService {
	return &CompanyService{
		companies: newBaseService[models.Company](db),
		jobs:      newBaseService[models.Job](db),
	}
}

// Create inserts a company. Handles are unique.
func (s *CompanyService) Create(ctx context.Context, in *models.NewCompany) (*models.Company, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	exists, err := s.companies.exists(ctx, "handle", in.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, types.BadRequest("Duplicate company: %s", in.Handle)
	}

	c := in.Company()
	if err := s.companies.create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// FindAll lists companies ordered by name. The name filter is a
// case-insensitive substring match; the employee bounds are exclusive.
func (s *CompanyService) FindAll(ctx context.Context, f models.CompanyFilter, page *types.PageRequest) (*types.Pagination[models.Company], error) {
	if err := models.Validate(&f); err != nil {
		return nil, err
	}
	if f.MinEmployees != nil && f.MaxEmployees != nil && *f.MinEmployees > *f.MaxEmployees {
		return nil, types.BadRequest("minEmployees cannot be greater than maxEmployees")
	}

	var conds query.Conditions
	if f.Name != "" {
		conds = conds.Add("name", query.Contains, f.Name)
	}
	if f.MinEmployees != nil {
		conds = conds.Add("num_employees", ">", *f.MinEmployees)
	}
	if f.MaxEmployees != nil {
		conds = conds.Add("num_employees", "<", *f.MaxEmployees)
	}
	return s.companies.find(ctx, conds, page, "name")
}

// Get returns a company with its jobs ordered by id.
func (s *CompanyService) Get(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	c, err := s.companies.getOne(ctx, "handle", handle)
	if err != nil {
		return nil, err
	}

	where, err := s.jobs.where(query.Conditions{}.Add("company_handle", "=", handle))
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.list(ctx, where, "id")
	if err != nil {
		return nil, err
	}

	detail := &models.CompanyDetail{Company: c, Jobs: make([]models.JobSummary, len(jobs))}
	for i, j := range jobs {
		detail.Jobs[i] = j.Summary()
	}
	return detail, nil
}

// Update applies a partial update. The handle cannot change.
func (s *CompanyService) Update(ctx context.Context, handle string, p *models.CompanyPatch) (*models.Company, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	return s.companies.patch(ctx, "handle", handle, query.FieldsOf(p), models.CompanyColumns)
}

// Remove deletes a company and, through the foreign key, its jobs.
func (s *CompanyService) Remove(ctx context.Context, handle string) error {
	return s.companies.remove(ctx, "handle", handle)
}
