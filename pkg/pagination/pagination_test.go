// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sunday/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20}},
		{"page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"page=0&limit=-5", pagination.Params{Page: 1, Limit: 20}},
		{"page=x&limit=500", pagination.Params{Page: 1, Limit: 20}},
	}

	for _, tt := range tests {
		request := httptest.NewRequest("GET", "/search/zones?"+tt.query, nil)
		assert.Equal(t, tt.want, pagination.FromRequest(request), tt.query)
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}
