// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sunday/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alpine Meadows", "alpine-meadows"},
		{"  Crêt de la Neige!! ", "cret-de-la-neige"},
		{"Mt. Tallac -- North Face", "mt-tallac-north-face"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestKeywords folds accents and drops repeated words across inputs.
*/
func TestKeywords(t *testing.T) {
	got := slug.Keywords("Église du Lac", "", "Truckee", "lac  TRUCKEE", "!!")
	assert.Equal(t, []string{"eglise", "du", "lac", "truckee"}, got)
	assert.Empty(t, slug.Keywords())
}
