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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomoncle/jobly/types"
)

const maxBodyBytes = 1 << 20

var errNotFound = types.NotFound("Not Found")

type errorBody struct {
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
}

type envelope map[string]any

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("write response failed")
	}
}

// writeError renders err as {"error": {...}}. Errors without an HTTP status
// are logged and reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Status: types.StatusOf(err)}
	var he *types.HTTPError
	if errors.As(err, &he) {
		body.Message = he.Message
		body.Details = he.Details
	} else {
		s.log.WithError(err).
			WithField("request_id", requestIDFrom(r.Context())).
			Errorf("%s %s failed", r.Method, r.URL.Path)
		body.Message = http.StatusText(body.Status)
	}
	s.writeJSON(w, body.Status, envelope{"error": body})
}

// decode reads a JSON body into dst. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return types.BadRequest("Request body is empty")
		}
		return &types.HTTPError{Status: http.StatusBadRequest, Message: "Invalid request", Details: []string{err.Error()}}
	}
	if dec.More() {
		return types.BadRequest("Request body must be a single JSON object")
	}
	return nil
}

// params reads the query string, rejecting keys outside allowed.
type params struct {
	values url.Values
	err    error
}

func queryParams(r *http.Request, allowed ...string) *params {
	p := &params{values: r.URL.Query()}
	known := make(map[string]bool, len(allowed)+2)
	for _, k := range append(allowed, "page", "pageSize") {
		known[k] = true
	}
	for k := range p.values {
		if !known[k] {
			p.err = types.BadRequest("Unknown query parameter: %s", k)
			break
		}
	}
	return p
}

func (p *params) str(key string) string {
	return p.values.Get(key)
}

func (p *params) intVal(key string) *int {
	v := p.values.Get(key)
	if v == "" || p.err != nil {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = types.BadRequest("%s must be an integer", key)
		return nil
	}
	return &n
}

func (p *params) boolVal(key string) *bool {
	v := p.values.Get(key)
	if v == "" || p.err != nil {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = types.BadRequest("%s must be a boolean", key)
		return nil
	}
	return &b
}

// page returns nil when neither page nor pageSize is given.
func (p *params) page() *types.PageRequest {
	page, size := p.intVal("page"), p.intVal("pageSize")
	if page == nil && size == nil {
		return nil
	}
	n, m := 1, 0
	if page != nil {
		n = *page
	}
	if size != nil {
		m = *size
	}
	return types.NewPageRequest(n, m)
}

// list builds a listing response. Page metadata is only added for paged requests.
func list[T any](key string, p *types.Pagination[T], paged bool) envelope {
	items := p.Items
	if items == nil {
		items = make([]*T, 0)
	}
	out := envelope{key: items}
	if paged {
		out["pagination"] = p
	}
	return out
}
