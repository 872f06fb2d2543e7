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

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	var in models.NewCompany
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.companies.Create(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"company": c})
}

// listCompanies accepts name, minEmployees and maxEmployees filters.
func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	q := queryParams(r, "name", "minEmployees", "maxEmployees")
	f := models.CompanyFilter{
		Name:         q.str("name"),
		MinEmployees: q.intVal("minEmployees"),
		MaxEmployees: q.intVal("maxEmployees"),
	}
	page := q.page()
	if q.err != nil {
		s.writeError(w, r, q.err)
		return
	}
	res, err := s.companies.FindAll(r.Context(), f, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list("companies", res, page != nil))
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.companies.Get(r.Context(), r.PathValue("handle"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"company": c})
}

func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) {
	var p models.CompanyPatch
	if err := decode(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.companies.Update(r.Context(), r.PathValue("handle"), &p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"company": c})
}

func (s *Server) removeCompany(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if err := s.companies.Remove(r.Context(), handle); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"deleted": handle})
}
