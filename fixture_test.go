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
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/jobly/database/dbtest"
	"github.com/tomoncle/jobly/models"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db        *bun.DB
	companies *CompanyService
	jobs      *JobService
	users     *UserService
	jobIDs    []int64
}

// newFixture seeds three companies, three jobs and two users.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)
	f := &fixture{
		db:        db,
		companies: NewCompanyService(db),
		jobs:      NewJobService(db),
		users:     NewUserService(db, bcrypt.MinCost),
	}

	for i, c := range []models.NewCompany{
		{Handle: "c1", Name: "C1", Description: "Desc1", NumEmployees: ptr(1), LogoURL: ptr("http://c1.img")},
		{Handle: "c2", Name: "C2", Description: "Desc2", NumEmployees: ptr(2), LogoURL: ptr("http://c2.img")},
		{Handle: "c3", Name: "C3", Description: "Desc3", NumEmployees: ptr(3)},
	} {
		_, err := f.companies.Create(ctx, &c)
		require.NoError(t, err, "company %d", i)
	}

	for _, j := range []models.NewJob{
		{Title: "Job1", Salary: ptr(100), Equity: ptr(0.1), CompanyHandle: "c1"},
		{Title: "Job2", Salary: ptr(200), Equity: ptr(0.2), CompanyHandle: "c1"},
		{Title: "Job3", Salary: ptr(300), Equity: ptr(0.0), CompanyHandle: "c1"},
	} {
		job, err := f.jobs.Create(ctx, &j)
		require.NoError(t, err)
		f.jobIDs = append(f.jobIDs, job.ID)
	}

	for _, u := range []models.NewUser{
		{Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "u1@email.com"},
		{Username: "u2", Password: "password2", FirstName: "U2F", LastName: "U2L", Email: "u2@email.com", IsAdmin: true},
	} {
		_, err := f.users.Register(ctx, &u)
		require.NoError(t, err)
	}
	return f
}
