// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/innkeep/pkg/pagination"
)

func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, pagination.DefaultLimit},
		{"?page=3&limit=10", 3, 10},
		{"?page=-1&limit=1000", 1, pagination.DefaultLimit},
		{"?page=abc", 1, pagination.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/guesthouses"+tt.query, nil))
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}

func TestMeta(t *testing.T) {
	assert.Equal(t, 20, pagination.Params{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 3, pagination.NewMeta(1, 10, 21).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 10, 0).TotalPages)
}
