//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkdesk/videolink/internal/app"
	"github.com/linkdesk/videolink/internal/auth"
	"github.com/linkdesk/videolink/internal/infra"
	"golang.org/x/crypto/bcrypt"
)

// TestMainAdminPassword is the bootstrap password used by integration tests.
const TestMainAdminPassword = "integration-main-admin"

// TestEnv holds all resources for an integration test.
type TestEnv struct {
	Server *httptest.Server
	Pool   *pgxpool.Pool
	Hasher *auth.PasswordHasher
	t      *testing.T
}

// Options adjust the router built by NewTestEnv.
type Options struct {
	Policy        auth.Policy
	PublishEvents bool
}

var (
	sharedPool *pgxpool.Pool
	poolOnce   sync.Once
	poolErr    error
)

// testDSN reads TEST_DATABASE_URL; the suite is skipped without it.
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return dsn
}

func getSharedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := testDSN(t)

	poolOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		poolCfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			poolErr = errors.New("parse pool config: invalid TEST_DATABASE_URL")
			return
		}
		poolCfg.MaxConns = 10
		poolCfg.MinConns = 1

		sharedPool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			poolErr = fmt.Errorf("create pool: %w", err)
			return
		}

		if err := infra.RunMigrations(dsn, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
			poolErr = fmt.Errorf("run migrations: %w", err)
			sharedPool.Close()
			sharedPool = nil
			return
		}
	})

	if poolErr != nil {
		t.Fatalf("failed to initialize test pool: %v", poolErr)
	}
	return sharedPool
}

// NewTestEnv creates a test environment with an httptest.Server backed by the real router and test DB.
// Tables are emptied before and after the test; the main admin is not created.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return NewTestEnvWithOptions(t, Options{})
}

// NewTestEnvWithOptions is NewTestEnv with a non-default policy or outbox setting.
func NewTestEnvWithOptions(t *testing.T, opts Options) *TestEnv {
	t.Helper()

	pool := getSharedPool(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	router := app.NewRouter(app.RouterDeps{
		Pool:               pool,
		Logger:             logger,
		Hasher:             hasher,
		Policy:             opts.Policy,
		PublishEvents:      opts.PublishEvents,
		CORSAllowedOrigins: "*",
	})

	server := httptest.NewServer(router)

	env := &TestEnv{
		Server: server,
		Pool:   pool,
		Hasher: hasher,
		t:      t,
	}

	t.Cleanup(func() {
		server.Close()
		env.CleanAll()
	})

	// Clean before test to ensure isolation
	env.CleanAll()

	return env
}
