// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN covers every accepted DSN shape.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"postgres_scheme", "postgres://u:p@db:5432/sunday", "pgx5://u:p@db:5432/sunday"},
		{"postgresql_scheme", "postgresql://u:p@db/sunday?sslmode=disable", "pgx5://u:p@db/sunday?sslmode=disable"},
		{"already_pgx5", "pgx5://u:p@db/sunday", "pgx5://u:p@db/sunday"},
		{"key_value", "host=db user=u dbname=sunday", "host=db user=u dbname=sunday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}
