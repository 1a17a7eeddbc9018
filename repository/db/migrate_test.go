package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigration(t *testing.T) {
	tests := []struct {
		name        string
		dbDSN       string
		migratePath string
		want        struct {
			error bool
		}
	}{
		{
			name:        "invalid database connection string",
			dbDSN:       "invalid_connection_string",
			migratePath: "../../migrations",
			want: struct {
				error bool
			}{
				error: true,
			},
		},
		{
			name:        "empty database connection string",
			dbDSN:       "",
			migratePath: "../../migrations",
			want: struct {
				error bool
			}{
				error: true,
			},
		},
		{
			name:        "malformed DSN",
			dbDSN:       "postgres://invalid",
			migratePath: "../../migrations",
			want: struct {
				error bool
			}{
				error: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Migration(tt.dbDSN, tt.migratePath)
			if tt.want.error {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
