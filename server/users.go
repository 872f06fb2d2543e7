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
	"net/http"

	"github.com/tomoncle/jobly/auth"
	"github.com/tomoncle/jobly/models"
)

// createUser lets an admin add a user, possibly another admin.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.users.Register(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tok, err := s.tokens.Create(u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"user": u, "token": tok})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := queryParams(r)
	page := q.page()
	if q.err != nil {
		s.writeError(w, r, q.err)
		return
	}
	res, err := s.users.FindAll(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list("users", res, page != nil))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), r.PathValue("username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"user": u})
}

// updateUser applies a partial update. Only admins may change isAdmin.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var p models.UserPatch
	if err := decode(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if c, _ := auth.FromContext(r.Context()); p.IsAdmin != nil && !c.IsAdmin {
		s.writeError(w, r, errUnauthorized)
		return
	}
	u, err := s.users.Update(r.Context(), r.PathValue("username"), &p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"user": u})
}

func (s *Server) removeUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := s.users.Remove(r.Context(), username); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"deleted": username})
}

func (s *Server) applyToJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.ApplyToJob(r.Context(), r.PathValue("username"), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"applied": id})
}
