package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	pgOnce sync.Once
	pgDSN  string
	pgErr  error
)

// PostgresDSN returns a DSN for integration tests. TEST_DATABASE_URL wins;
// otherwise a shared postgres container is started. The test is skipped
// when neither is available.
func PostgresDSN(t *testing.T) string {
	t.Helper()

	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}

	pgOnce.Do(func() {
		pgDSN, pgErr = startPostgres()
	})
	if pgErr != nil {
		t.Skipf("skipping postgres tests: %v", pgErr)
	}
	return pgDSN
}

func startPostgres() (dsn string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	// testcontainers panics when no docker daemon is reachable
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("starting postgres container panicked: %v", r)
		}
	}()

	c, err := testcontainers.Run(
		ctx, "postgres:16",
		testcontainers.WithExposedPorts("5432/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2*time.Minute),
		),
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_USER":     "aihub",
			"POSTGRES_PASSWORD": "aihub",
			"POSTGRES_DB":       "aihub_test",
		}),
	)
	if err != nil {
		return "", err
	}

	endpoint, err := c.Endpoint(ctx, "")
	if err != nil {
		_ = c.Terminate(context.Background())
		return "", err
	}
	return fmt.Sprintf("postgres://aihub:aihub@%s/aihub_test?sslmode=disable", endpoint), nil
}
