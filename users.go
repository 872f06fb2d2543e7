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

	"github.com/tomoncle/jobly/auth"
	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/query"
	"github.com/tomoncle/jobly/repository"
	"github.com/tomoncle/jobly/types"
	"github.com/uptrace/bun"
)

var errInvalidCredentials = types.Unauthorized("Invalid username/password")

// UserService manages accounts and job applications.
type UserService struct {
	users        *baseService[models.User]
	applications *baseService[models.Application]
	jobs         *baseService[models.Job]
	bcryptCost   int
}

func NewUserService(db bun.IDB, bcryptCost int) *UserService {
	return &UserService{
		users:        newBaseService[models.User](db),
		applications: newBaseService[models.Application](db),
		jobs:         newBaseService[models.Job](db),
		bcryptCost:   bcryptCost,
	}
}

// Register creates a user with a hashed password.
func (s *UserService) Register(ctx context.Context, in *models.NewUser) (*models.User, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	exists, err := s.users.exists(ctx, "username", in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, types.BadRequest("Duplicate username: %s", in.Username)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:  in.Username,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		IsAdmin:   in.IsAdmin,
	}
	if err := s.users.create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user when password matches. Unknown users and
// wrong passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.getOne(ctx, "username", username)
	if errors.Is(err, types.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, errInvalidCredentials
	}
	return u, nil
}

func (s *UserService) FindAll(ctx context.Context, page *types.PageRequest) (*types.Pagination[models.User], error) {
	return s.users.find(ctx, nil, page, "username")
}

// Get returns a user with the ids of the jobs they applied to.
func (s *UserService) Get(ctx context.Context, username string) (*models.UserDetail, error) {
	u, err := s.users.getOne(ctx, "username", username)
	if err != nil {
		return nil, err
	}

	where, err := s.applications.where(query.Conditions{}.Add("username", "=", username))
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.list(ctx, where, "job_id")
	if err != nil {
		return nil, err
	}

	detail := &models.UserDetail{User: u, Applications: make([]int64, len(apps))}
	for i, a := range apps {
		detail.Applications[i] = a.JobID
	}
	return detail, nil
}

// Update applies a partial update. A new password is hashed before it is stored.
func (s *UserService) Update(ctx context.Context, username string, p *models.UserPatch) (*models.User, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	fields := query.FieldsOf(p)
	if p.Password != nil {
		hash, err := auth.HashPassword(*p.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		fields = fields.Set("password", hash)
	}
	return s.users.patch(ctx, "username", username, fields, models.UserColumns)
}

func (s *UserService) Remove(ctx context.Context, username string) error {
	return s.users.remove(ctx, "username", username)
}

// ApplyToJob records an application. Applying twice is not an error.
func (s *UserService) ApplyToJob(ctx context.Context, username string, jobID int64) error {
	users, err := s.users.baseRepo()
	if err != nil {
		return err
	}
	return users.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := mustExist(ctx, repository.NewRepository[models.User](tx), "username", username); err != nil {
			return err
		}
		if err := mustExist(ctx, repository.NewRepository[models.Job](tx), "id", jobID); err != nil {
			return err
		}
		app := &models.Application{Username: username, JobID: jobID}
		return repository.NewRepository[models.Application](tx).Upsert(ctx, []string{"job_id"}, []string{"username", "job_id"}, app)
	})
}

func mustExist[T any](ctx context.Context, repo repository.Repository[T], key string, id any) error {
	_, err := repo.GetOne(ctx, key, id)
	return err
}
