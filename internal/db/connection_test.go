package db

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDSN(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "defaults without password",
			env:      map[string]string{},
			expected: "dbname='posting' host='localhost' port='5432' sslmode='disable' user='postgres'",
		},
		{
			name: "password with quote and space",
			env: map[string]string{
				"PGHOST":     "db.internal",
				"PGPORT":     "6543",
				"PGUSER":     "planner",
				"PGPASSWORD": `it's a \secret`,
				"PGDATABASE": "areas",
			},
			expected: `dbname='areas' host='db.internal' password='it\'s a \\secret' port='6543' sslmode='disable' user='planner'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE"} {
				t.Setenv(key, tt.env[key])
			}

			dsn := envDSN()
			_, err := pq.NewConnector(dsn)
			require.NoError(t, err)

			kv, err := pq.ParseURL(dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kv)
		})
	}
}
