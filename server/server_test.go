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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/jobly"
	"github.com/tomoncle/jobly/auth"
	"github.com/tomoncle/jobly/database"
	"github.com/tomoncle/jobly/database/dbtest"
	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/utils"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	db         *bun.DB
	srv        *Server
	tokens     *auth.Tokens
	adminToken string
	u1Token    string
	jobIDs     []int64
}

func ptr[T any](v T) *T { return &v }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.ConfigureLogOutput(io.Discard)
	ctx := context.Background()
	db := dbtest.New(t)

	companies := jobly.NewCompanyService(db)
	jobs := jobly.NewJobService(db)
	users := jobly.NewUserService(db, bcrypt.MinCost)
	tokens := auth.NewTokens("test-secret", time.Hour)

	env := &testEnv{db: db, tokens: tokens}
	env.srv = New(Options{
		Companies: companies,
		Jobs:      jobs,
		Users:     users,
		Tokens:    tokens,
		Health: func(context.Context) *database.HealthStatus {
			return &database.HealthStatus{Healthy: true, Connected: true, Type: "sqlite"}
		},
	})

	for _, c := range []models.NewCompany{
		{Handle: "c1", Name: "C1", Description: "Desc1", NumEmployees: ptr(1)},
		{Handle: "c2", Name: "C2", Description: "Desc2", NumEmployees: ptr(2)},
		{Handle: "c3", Name: "C3", Description: "Desc3", NumEmployees: ptr(3)},
	} {
		_, err := companies.Create(ctx, &c)
		require.NoError(t, err)
	}
	for _, j := range []models.NewJob{
		{Title: "J1", Salary: ptr(1), Equity: ptr(0.1), CompanyHandle: "c1"},
		{Title: "J2", Salary: ptr(2), Equity: ptr(0.2), CompanyHandle: "c1"},
		{Title: "J3", Salary: ptr(3), CompanyHandle: "c1"},
	} {
		job, err := jobs.Create(ctx, &j)
		require.NoError(t, err)
		env.jobIDs = append(env.jobIDs, job.ID)
	}
	for _, u := range []models.NewUser{
		{Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "user1@user.com"},
		{Username: "u2", Password: "password2", FirstName: "U2F", LastName: "U2L", Email: "user2@user.com"},
		{Username: "admin", Password: "password3", FirstName: "A", LastName: "D", Email: "admin@user.com", IsAdmin: true},
	} {
		created, err := users.Register(ctx, &u)
		require.NoError(t, err)
		tok, err := tokens.Create(created)
		require.NoError(t, err)
		switch created.Username {
		case "u1":
			env.u1Token = tok
		case "admin":
			env.adminToken = tok
		}
	}
	return env
}

// do sends a request and decodes the JSON response into a generic map.
func (e *testEnv) do(t *testing.T, method, target, token string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func errMessage(t *testing.T, body map[string]any) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "no error in %v", body)
	return e["message"].(string)
}

func TestAuthToken(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/auth/token", "", map[string]any{"username": "u1", "password": "password1"})
	require.Equal(t, http.StatusOK, code)
	claims, err := env.tokens.Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Username)
	assert.False(t, claims.IsAdmin)

	code, body = env.do(t, http.MethodPost, "/auth/token", "", map[string]any{"username": "u1", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid username/password", errMessage(t, body))

	code, _ = env.do(t, http.MethodPost, "/auth/token", "", map[string]any{"username": "u1"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthRegister(t *testing.T) {
	env := newTestEnv(t)
	payload := map[string]any{
		"username": "new", "password": "password", "firstName": "first", "lastName": "last", "email": "new@email.com",
	}

	code, body := env.do(t, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, code)
	claims, err := env.tokens.Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "new", claims.Username)

	code, body = env.do(t, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Duplicate username: new", errMessage(t, body))

	payload["isAdmin"] = true
	payload["username"] = "sneaky"
	code, _ = env.do(t, http.MethodPost, "/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, code, "registration cannot grant admin")
}

func TestCompanies(t *testing.T) {
	env := newTestEnv(t)
	newCompany := map[string]any{"handle": "new", "name": "New", "description": "DescNew", "numEmployees": 10}

	code, _ := env.do(t, http.MethodPost, "/companies", env.u1Token, newCompany)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := env.do(t, http.MethodPost, "/companies", env.adminToken, newCompany)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "new", body["company"].(map[string]any)["handle"])

	code, body = env.do(t, http.MethodGet, "/companies", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["companies"], 4)
	assert.NotContains(t, body, "pagination")

	code, body = env.do(t, http.MethodGet, "/companies?minEmployees=2&maxEmployees=5&name=c", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["companies"], 1)
	assert.Equal(t, "c3", body["companies"].([]any)[0].(map[string]any)["handle"])

	code, _ = env.do(t, http.MethodGet, "/companies?minEmployees=5&maxEmployees=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = env.do(t, http.MethodGet, "/companies?minEmployees=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = env.do(t, http.MethodGet, "/companies?nope=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = env.do(t, http.MethodGet, "/companies?page=2&pageSize=3", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["companies"], 1)
	assert.EqualValues(t, 4, body["pagination"].(map[string]any)["total"])

	code, body = env.do(t, http.MethodGet, "/companies/c1", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["company"].(map[string]any)["jobs"], 3)

	code, body = env.do(t, http.MethodGet, "/companies/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No company: nope", errMessage(t, body))

	code, body = env.do(t, http.MethodPatch, "/companies/c1", env.adminToken, map[string]any{"name": "C1-new", "logoUrl": nil})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "C1-new", body["company"].(map[string]any)["name"])

	code, _ = env.do(t, http.MethodPatch, "/companies/c1", env.adminToken, map[string]any{"handle": "c1-new"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = env.do(t, http.MethodPatch, "/companies/c1", env.u1Token, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = env.do(t, http.MethodPatch, "/companies/nope", env.adminToken, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, http.MethodDelete, "/companies/c1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, body = env.do(t, http.MethodDelete, "/companies/c1", env.adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"deleted": "c1"}, body)
	code, _ = env.do(t, http.MethodDelete, "/companies/c1", env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestJobs(t *testing.T) {
	env := newTestEnv(t)
	id := env.jobIDs[0]

	code, _ := env.do(t, http.MethodPost, "/jobs", env.u1Token, map[string]any{"title": "J-new", "companyHandle": "c1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := env.do(t, http.MethodPost, "/jobs", env.adminToken, map[string]any{"title": "J-new", "salary": 10, "equity": 0.2, "companyHandle": "c1"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "J-new", body["job"].(map[string]any)["title"])

	code, _ = env.do(t, http.MethodPost, "/jobs", env.adminToken, map[string]any{"title": "J-new", "salary": "not-a-number", "companyHandle": "c1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = env.do(t, http.MethodGet, "/jobs", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["jobs"], 4)

	code, body = env.do(t, http.MethodGet, "/jobs?hasEquity=true&minSalary=2", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["jobs"], 2)

	code, _ = env.do(t, http.MethodGet, "/jobs?hasEquity=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = env.do(t, http.MethodGet, fmt.Sprintf("/jobs/%d", id), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "J1", body["job"].(map[string]any)["title"])

	code, body = env.do(t, http.MethodGet, "/jobs/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No job: nope", errMessage(t, body))
	code, _ = env.do(t, http.MethodGet, "/jobs/0", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = env.do(t, http.MethodPatch, fmt.Sprintf("/jobs/%d", id), env.adminToken, map[string]any{"title": "J-updated"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "J-updated", body["job"].(map[string]any)["title"])

	code, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/jobs/%d", id), env.adminToken, map[string]any{"companyHandle": "c2"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/jobs/%d", id), env.u1Token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, body = env.do(t, http.MethodPatch, fmt.Sprintf("/jobs/%d", id), env.adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No data", errMessage(t, body))

	code, body = env.do(t, http.MethodDelete, fmt.Sprintf("/jobs/%d", id), env.adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"deleted": fmt.Sprint(id)}, body)
	code, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/jobs/%d", id), env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUsers(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/users", env.adminToken, map[string]any{
		"username": "u-new", "password": "password-new", "firstName": "F", "lastName": "L", "email": "new@email.com", "isAdmin": true,
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["user"].(map[string]any)["isAdmin"])
	assert.NotContains(t, body["user"], "password")
	assert.NotEmpty(t, body["token"])

	code, _ = env.do(t, http.MethodGet, "/users", env.u1Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, body = env.do(t, http.MethodGet, "/users", env.adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["users"], 4)

	code, body = env.do(t, http.MethodGet, "/users/u1", env.u1Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "U1F", body["user"].(map[string]any)["firstName"])
	assert.Equal(t, []any{}, body["user"].(map[string]any)["applications"])

	code, _ = env.do(t, http.MethodGet, "/users/u2", env.u1Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = env.do(t, http.MethodGet, "/users/u2", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = env.do(t, http.MethodGet, "/users/nope", env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = env.do(t, http.MethodPatch, "/users/u1", env.u1Token, map[string]any{"firstName": "New"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "New", body["user"].(map[string]any)["firstName"])

	code, _ = env.do(t, http.MethodPatch, "/users/u1", env.u1Token, map[string]any{"isAdmin": true})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = env.do(t, http.MethodPatch, "/users/u1", env.adminToken, map[string]any{"isAdmin": true})
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, http.MethodPatch, "/users/u1", env.u1Token, map[string]any{"username": "other"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodDelete, "/users/u2", env.u1Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, body = env.do(t, http.MethodDelete, "/users/u2", env.adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"deleted": "u2"}, body)
}

func TestApplyToJob(t *testing.T) {
	env := newTestEnv(t)
	id := env.jobIDs[0]

	code, body := env.do(t, http.MethodPost, fmt.Sprintf("/users/u1/jobs/%d", id), env.u1Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, id, body["applied"])

	code, _ = env.do(t, http.MethodPost, fmt.Sprintf("/users/u1/jobs/%d", id), env.u1Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = env.do(t, http.MethodGet, "/users/u1", env.u1Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{float64(id)}, body["user"].(map[string]any)["applications"])

	code, _ = env.do(t, http.MethodPost, fmt.Sprintf("/users/u2/jobs/%d", id), env.u1Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = env.do(t, http.MethodPost, "/users/u1/jobs/0", env.u1Token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = env.do(t, http.MethodPost, "/users/u1/jobs/abc", env.u1Token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = env.do(t, http.MethodPost, fmt.Sprintf("/users/nope/jobs/%d", id), env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTokenHandling(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/companies", "not-a-token", map[string]any{"handle": "x", "name": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)

	forged, err := auth.NewTokens("other-secret", time.Hour).Create(&models.User{Username: "admin", IsAdmin: true})
	require.NoError(t, err)
	code, _ = env.do(t, http.MethodPost, "/companies", forged, map[string]any{"handle": "x", "name": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestNotFoundAndHealth(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.EqualValues(t, 404, body["error"].(map[string]any)["status"])

	code, body = env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["healthy"])

	env.srv.health = func(context.Context) *database.HealthStatus {
		return &database.HealthStatus{LastError: "down"}
	}
	code, _ = env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestInvalidBody(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/auth/token", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	code, body := env.do(t, http.MethodPost, "/auth/token", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Request body is empty", errMessage(t, body))
}

func TestPasswordTooLongForBcrypt(t *testing.T) {
	env := newTestEnv(t)
	long := strings.Repeat("é", 40)

	code, body := env.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "new", "password": long, "firstName": "first", "lastName": "last", "email": "new@email.com",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request", errMessage(t, body))

	code, _ = env.do(t, http.MethodPatch, "/users/u1", env.u1Token, map[string]any{"password": long})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPageBeyondEnd(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/companies?page=3&pageSize=2", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["companies"])
	assert.EqualValues(t, 2, body["pagination"].(map[string]any)["totalPages"])

	code, body = env.do(t, http.MethodGet, "/companies?page=9223372036854775807&pageSize=20", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["companies"])
	assert.EqualValues(t, 3, body["pagination"].(map[string]any)["total"])

	code, _ = env.do(t, http.MethodGet, "/companies?page=99999999999999999999", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUnclassifiedStorageErrorIs500(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.db.NewDropTable().Model((*models.Application)(nil)).Exec(context.Background())
	require.NoError(t, err)
	_, err = env.db.NewDropTable().Model((*models.Job)(nil)).Exec(context.Background())
	require.NoError(t, err)

	code, body := env.do(t, http.MethodGet, "/jobs", "", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]any{"error": map[string]any{"message": "Internal Server Error", "status": float64(500)}}, body)
}
