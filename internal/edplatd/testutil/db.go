// Package testutil provides shared helpers for integration tests
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/database"
)

// SetupTestDB creates a fresh PostgreSQL database with all migrations
// applied. Tests are skipped when TEST_DATABASE_URL is not set.
func SetupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	baseURL := os.Getenv("TEST_DATABASE_URL")
	if baseURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping PostgreSQL integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adminDB, err := sql.Open("postgres", baseURL)
	require.NoError(t, err, "failed to open admin connection")
	defer adminDB.Close()

	dbName := fmt.Sprintf("edplat_test_%d", time.Now().UnixNano())
	_, err = adminDB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName))
	require.NoError(t, err)

	testURL, err := withDatabase(baseURL, dbName)
	require.NoError(t, err)

	db, err := database.SetupDatabase(ctx, testURL, database.PoolOptions{MaxOpenConns: 10}, 5, time.Second)
	require.NoError(t, err)

	cleanup := func() {
		if cerr := db.Close(); cerr != nil {
			t.Logf("error closing test database connection: %v", cerr)
		}

		adminDB, err := sql.Open("postgres", baseURL)
		if err != nil {
			t.Logf("error connecting to drop test database: %v", err)
			return
		}
		defer adminDB.Close()

		_, err = adminDB.Exec("SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1", dbName)
		if err != nil {
			t.Logf("error terminating connections to test database: %v", err)
		}

		if _, err := adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
			t.Logf("error dropping test database: %v", err)
		}
	}

	return db, cleanup
}

// withDatabase swaps the database name in a postgres:// URL
func withDatabase(baseURL, name string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid TEST_DATABASE_URL: %w", err)
	}
	u.Path = "/" + name
	return u.String(), nil
}
