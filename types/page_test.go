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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestBounds(t *testing.T) {
	tests := []struct {
		name           string
		page, pageSize int
		wantPage       int
		wantSize       int
		wantOffset     int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize, 0},
		{"second page", 2, 10, 2, 10, 10},
		{"size capped", 1, 1000, 1, MaxPageSize, 0},
		{"huge page stays positive", math.MaxInt, 20, MaxPage, 20, (MaxPage - 1) * 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageRequest(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, p.GetPage())
			assert.Equal(t, tt.wantSize, p.GetPageSize())
			assert.Equal(t, tt.wantOffset, p.GetOffset())
			assert.Positive(t, p.GetOffset()+1)
		})
	}
}

func TestPaginationTotal(t *testing.T) {
	p := NewPagination[int](NewPageRequest(3, 2))
	p.SetTotal(5)
	assert.Equal(t, 3, p.TotalPages)
	assert.Empty(t, p.Items)
}
