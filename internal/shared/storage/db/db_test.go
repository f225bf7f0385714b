package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"sync"
	"testing"
	"time"
)

// nopDriver satisfies database/sql with no-op connections so pool
// behavior can be exercised without a server.
type nopDriver struct{}

type nopConn struct{}

func (nopDriver) Open(string) (driver.Conn, error)  { return nopConn{}, nil }
func (nopConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (nopConn) Close() error                        { return nil }
func (nopConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }
func (nopConn) Ping(ctx context.Context) error      { return nil }

var registerNopDriver sync.Once

func useNopDriver(t *testing.T) {
	t.Helper()
	registerNopDriver.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	t.Cleanup(func() { openDB = prev })
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	useNopDriver(t)

	if _, err := Connect(context.Background(), "  ", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for empty DATABASE_URL")
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	useNopDriver(t)

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultServerOptions())
	if opts.MaxIdleConns != 3 || opts.ConnMaxLifetime != 20*time.Minute ||
		opts.ConnMaxIdleTime != 45*time.Second || opts.PingTimeout != time.Second {
		t.Fatalf("unexpected overrides: %+v", opts)
	}

	database, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer database.Close()

	if got := database.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
}

func TestDefaultWorkerOptionsScaleWithConcurrency(t *testing.T) {
	opts := DefaultWorkerOptions(8)
	if opts.MaxOpenConns != 10 || opts.MaxIdleConns != 8 {
		t.Fatalf("unexpected options for concurrency 8: %+v", opts)
	}

	opts = DefaultWorkerOptions(0)
	if opts.MaxOpenConns != 6 {
		t.Fatalf("expected fallback MaxOpenConns=6, got %d", opts.MaxOpenConns)
	}
}
