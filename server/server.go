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

// Package server exposes the jobly services over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/tomoncle/jobly"
	"github.com/tomoncle/jobly/auth"
	"github.com/tomoncle/jobly/database"
	"github.com/tomoncle/jobly/utils"
)

// HealthFunc reports database health for /healthz.
type HealthFunc func(ctx context.Context) *database.HealthStatus

type Options struct {
	Companies *jobly.CompanyService
	Jobs      *jobly.JobService
	Users     *jobly.UserService
	Tokens    *auth.Tokens
	// Health defaults to database.GetHealthStatus.
	Health HealthFunc
}

type Server struct {
	companies *jobly.CompanyService
	jobs      *jobly.JobService
	users     *jobly.UserService
	tokens    *auth.Tokens
	health    HealthFunc
	log       *utils.Logger
	handler   http.Handler
}

func New(opts Options) *Server {
	s := &Server{
		companies: opts.Companies,
		jobs:      opts.Jobs,
		users:     opts.Users,
		tokens:    opts.Tokens,
		health:    opts.Health,
		log:       utils.NewLogger("HTTP"),
	}
	if s.health == nil {
		s.health = database.GetHealthStatus
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = Chain(mux,
		s.Recover,
		RequestID,
		s.AccessLog,
		s.Authenticate,
	)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/token", s.token)
	mux.HandleFunc("POST /auth/register", s.register)

	mux.HandleFunc("POST /companies", s.ensureAdmin(s.createCompany))
	mux.HandleFunc("GET /companies", s.listCompanies)
	mux.HandleFunc("GET /companies/{handle}", s.getCompany)
	mux.HandleFunc("PATCH /companies/{handle}", s.ensureAdmin(s.updateCompany))
	mux.HandleFunc("DELETE /companies/{handle}", s.ensureAdmin(s.removeCompany))

	mux.HandleFunc("POST /jobs", s.ensureAdmin(s.createJob))
	mux.HandleFunc("GET /jobs", s.listJobs)
	mux.HandleFunc("GET /jobs/{id}", s.getJob)
	mux.HandleFunc("PATCH /jobs/{id}", s.ensureAdmin(s.updateJob))
	mux.HandleFunc("DELETE /jobs/{id}", s.ensureAdmin(s.removeJob))

	mux.HandleFunc("POST /users", s.ensureAdmin(s.createUser))
	mux.HandleFunc("GET /users", s.ensureAdmin(s.listUsers))
	mux.HandleFunc("GET /users/{username}", s.ensureCorrectUserOrAdmin(s.getUser))
	mux.HandleFunc("PATCH /users/{username}", s.ensureCorrectUserOrAdmin(s.updateUser))
	mux.HandleFunc("DELETE /users/{username}", s.ensureCorrectUserOrAdmin(s.removeUser))
	mux.HandleFunc("POST /users/{username}/jobs/{id}", s.ensureCorrectUserOrAdmin(s.applyToJob))

	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("/", s.notFound)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	status := s.health(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, status)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errNotFound)
}
