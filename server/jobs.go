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
	"strconv"

	"github.com/tomoncle/jobly/models"
	"github.com/tomoncle/jobly/types"
)

// jobID parses the {id} path value. Anything that is not a job id is
// reported like a missing job.
func jobID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, types.NotFound("No job: %s", raw)
	}
	return id, nil
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var in models.NewJob
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err := s.jobs.Create(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{"job": j})
}

// listJobs accepts title, minSalary and hasEquity filters.
func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	q := queryParams(r, "title", "minSalary", "hasEquity")
	f := models.JobFilter{
		Title:     q.str("title"),
		MinSalary: q.intVal("minSalary"),
		HasEquity: q.boolVal("hasEquity"),
	}
	page := q.page()
	if q.err != nil {
		s.writeError(w, r, q.err)
		return
	}
	res, err := s.jobs.FindAll(r.Context(), f, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list("jobs", res, page != nil))
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"job": j})
}

func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var p models.JobPatch
	if err := decode(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err := s.jobs.Update(r.Context(), id, &p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"job": j})
}

func (s *Server) removeJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.jobs.Remove(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{"deleted": r.PathValue("id")})
}
