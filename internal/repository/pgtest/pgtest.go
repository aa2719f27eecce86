// Package pgtest starts a throwaway Postgres for repository tests.
package pgtest

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"notarycalc/migrations"
)

var pgContainer *postgres.PostgresContainer

func cleanup() {
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
}

// Main runs the package tests against a migrated postgres:16 container.
// dsn is set before m.Run is called.
func Main(m *testing.M, dsn *string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(1)
	}()

	c, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("notary_db"),
		postgres.WithUsername("notary_user"),
		postgres.WithPassword("notary_password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "run container: %v\n", err)
		cleanup()
		os.Exit(1)
	}
	pgContainer = c

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "conn string: %v\n", err)
		cleanup()
		os.Exit(1)
	}
	if err := migrations.Up(connStr); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "migrate up: %v\n", err)
		cleanup()
		os.Exit(1)
	}
	*dsn = connStr

	code := m.Run()

	cleanup()
	os.Exit(code)
}

// Pool opens a pool and empties the given tables. The pool is closed with the test.
func Pool(t *testing.T, dsn string, tables ...string) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	if len(tables) > 0 {
		_, err = pool.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" CASCADE")
		require.NoError(t, err)
	}
	return pool
}

// NewProfile inserts a bare account and returns its id, for rows that need an owner.
func NewProfile(t *testing.T, pool *pgxpool.Pool) strfmt.UUID {
	t.Helper()
	id := strfmt.UUID(uuid.NewString())
	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, email, password_hash) VALUES ($1, $2, 'x')`,
		id, id.String()+"@example.com")
	require.NoError(t, err)
	return id
}
