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

package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is an error that carries the HTTP status it should be reported with.
type HTTPError struct {
	Status  int
	Message string
	// Details holds per-field messages, e.g. validation failures.
	Details []string
}

func (e *HTTPError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// Is reports whether target is an HTTPError with the same status.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	return ok && t.Status == e.Status && t.Message == ""
}

// Sentinels for errors.Is checks on the status class only.
var (
	ErrBadRequest   = &HTTPError{Status: http.StatusBadRequest}
	ErrUnauthorized = &HTTPError{Status: http.StatusUnauthorized}
	ErrForbidden    = &HTTPError{Status: http.StatusForbidden}
	ErrNotFound     = &HTTPError{Status: http.StatusNotFound}
)

func BadRequest(format string, args ...interface{}) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *HTTPError {
	return &HTTPError{Status: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// StatusOf returns the HTTP status for err, 500 for anything that is not an HTTPError.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return http.StatusInternalServerError
}
