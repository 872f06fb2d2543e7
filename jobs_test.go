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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/query"
	"github.com/tomoncle/jobly/types"
)

func jobTitles(items []*models.Job) []string {
	out := make([]string, len(items))
	for i, j := range items {
		out[i] = j.Title
	}
	return out
}

func TestJobCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j, err := f.jobs.Create(ctx, &models.NewJob{Title: "New", Salary: ptr(500), Equity: ptr(0.5), CompanyHandle: "c2"})
	require.NoError(t, err)
	assert.NotZero(t, j.ID)
	assert.Equal(t, "c2", j.CompanyHandle)

	_, err = f.jobs.Create(ctx, &models.NewJob{Title: "New", CompanyHandle: "nope"})
	assert.EqualError(t, err, "No company: nope")

	_, err = f.jobs.Create(ctx, &models.NewJob{Title: "New", Equity: ptr(1.5), CompanyHandle: "c1"})
	assert.True(t, errors.Is(err, types.ErrBadRequest))
}

func TestJobFindAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.JobFilter
		want   []string
	}{
		{"no filter", models.JobFilter{}, []string{"Job1", "Job2", "Job3"}},
		{"title", models.JobFilter{Title: "job2"}, []string{"Job2"}},
		{"min salary is inclusive", models.JobFilter{MinSalary: ptr(200)}, []string{"Job2", "Job3"}},
		{"has equity", models.JobFilter{HasEquity: ptr(true)}, []string{"Job1", "Job2"}},
		{"has equity false does not filter", models.JobFilter{HasEquity: ptr(false)}, []string{"Job1", "Job2", "Job3"}},
		{"combined", models.JobFilter{Title: "job", MinSalary: ptr(150), HasEquity: ptr(true)}, []string{"Job2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.jobs.FindAll(ctx, tt.filter, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, jobTitles(got.Items))
		})
	}
}

func TestJobGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	j, err := f.jobs.Get(ctx, f.jobIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "Job1", j.Title)
	assert.Equal(t, 100, *j.Salary)

	_, err = f.jobs.Get(ctx, 0)
	assert.EqualError(t, err, "No job: 0")
}

func TestJobUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.jobIDs[0]

	j, err := f.jobs.Update(ctx, id, &models.JobPatch{Title: ptr("New"), Equity: query.Null[float64]()})
	require.NoError(t, err)
	assert.Equal(t, "New", j.Title)
	assert.Equal(t, 100, *j.Salary)
	assert.Nil(t, j.Equity)
	assert.Equal(t, "c1", j.CompanyHandle)

	_, err = f.jobs.Update(ctx, 0, &models.JobPatch{Title: ptr("x")})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = f.jobs.Update(ctx, id, &models.JobPatch{})
	assert.EqualError(t, err, "No data")

	_, err = f.jobs.Update(ctx, id, &models.JobPatch{Salary: query.Some(-1)})
	assert.True(t, errors.Is(err, types.ErrBadRequest))
}

func TestJobRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.jobs.Remove(ctx, f.jobIDs[0]))
	_, err := f.jobs.Get(ctx, f.jobIDs[0])
	assert.True(t, errors.Is(err, types.ErrNotFound))

	assert.True(t, errors.Is(f.jobs.Remove(ctx, 0), types.ErrNotFound))
}
