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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/jobly/auth"
	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/types"
)

func TestUserRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, &models.NewUser{
		Username: "new", Password: "password", FirstName: "Test", LastName: "Tester", Email: "test@test.com",
	})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "password", u.Password)
	assert.True(t, auth.CheckPassword(u.Password, "password"))

	_, err = f.users.Register(ctx, &models.NewUser{
		Username: "new", Password: "password", FirstName: "Test", LastName: "Tester", Email: "test@test.com",
	})
	assert.EqualError(t, err, "Duplicate username: new")

	_, err = f.users.Register(ctx, &models.NewUser{Username: "bad", Password: "password", FirstName: "a", LastName: "b", Email: "nope"})
	assert.True(t, errors.Is(err, types.ErrBadRequest))
}

func TestUserPasswordByteLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	long := strings.Repeat("é", 40)

	_, err := f.users.Register(ctx, &models.NewUser{
		Username: "new", Password: long, FirstName: "Test", LastName: "Tester", Email: "test@test.com",
	})
	assert.True(t, errors.Is(err, types.ErrBadRequest))

	_, err = f.users.Update(ctx, "u1", &models.UserPatch{Password: &long})
	assert.True(t, errors.Is(err, types.ErrBadRequest))

	_, err = f.users.Authenticate(ctx, "u1", "password1")
	assert.NoError(t, err, "password unchanged")
}

func TestUserAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Authenticate(ctx, "u1", "password1")
	require.NoError(t, err)
	assert.Equal(t, "U1F", u.FirstName)

	_, err = f.users.Authenticate(ctx, "u1", "wrong")
	assert.True(t, errors.Is(err, types.ErrUnauthorized))

	_, err = f.users.Authenticate(ctx, "nope", "password1")
	assert.True(t, errors.Is(err, types.ErrUnauthorized))
	assert.EqualError(t, err, "Invalid username/password")
}

func TestUserFindAllAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.users.FindAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, "u1", all.Items[0].Username)
	assert.True(t, all.Items[1].IsAdmin)

	require.NoError(t, f.users.ApplyToJob(ctx, "u1", f.jobIDs[1]))
	require.NoError(t, f.users.ApplyToJob(ctx, "u1", f.jobIDs[0]))

	u, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@email.com", u.Email)
	assert.Equal(t, []int64{f.jobIDs[0], f.jobIDs[1]}, u.Applications)

	_, err = f.users.Get(ctx, "nope")
	assert.EqualError(t, err, "No user: nope")
}

func TestUserUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Update(ctx, "u1", &models.UserPatch{FirstName: ptr("New"), Password: ptr("new-password")})
	require.NoError(t, err)
	assert.Equal(t, "New", u.FirstName)
	assert.Equal(t, "U1L", u.LastName)

	_, err = f.users.Authenticate(ctx, "u1", "new-password")
	assert.NoError(t, err)

	_, err = f.users.Update(ctx, "nope", &models.UserPatch{FirstName: ptr("x")})
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = f.users.Update(ctx, "u1", &models.UserPatch{})
	assert.EqualError(t, err, "No data")
}

func TestUserRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.ApplyToJob(ctx, "u1", f.jobIDs[0]))
	require.NoError(t, f.users.Remove(ctx, "u1"))
	assert.True(t, errors.Is(f.users.Remove(ctx, "u1"), types.ErrNotFound))
}

func TestUserApplyToJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.ApplyToJob(ctx, "u1", f.jobIDs[0]))
	require.NoError(t, f.users.ApplyToJob(ctx, "u1", f.jobIDs[0]), "applying twice is allowed")

	u, err := f.users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []int64{f.jobIDs[0]}, u.Applications)

	err = f.users.ApplyToJob(ctx, "nope", f.jobIDs[0])
	assert.EqualError(t, err, "No user: nope")

	err = f.users.ApplyToJob(ctx, "u1", 0)
	assert.EqualError(t, err, "No job: 0")
}
