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

	"github.com/tomoncle/jobly/models"
)

// token exchanges a username and password for a token.
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	var in models.Login
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := models.Validate(&in); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.users.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondToken(w, r, http.StatusOK, u)
}

// register signs up a regular user and logs them in.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in models.Registration
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.users.Register(r.Context(), in.NewUser())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondToken(w, r, http.StatusCreated, u)
}

func (s *Server) respondToken(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	tok, err := s.tokens.Create(u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, status, envelope{"token": tok})
}
