package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// timeLayout is fixed-width so that lexical order of stored timestamps equals chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps a database handle together with the placeholder dialect of its driver.
type DB struct {
	*sql.DB
	driver string
}

// Open connects to PostgreSQL when databaseURL is set, otherwise to the SQLite file at sqlitePath.
func Open(ctx context.Context, databaseURL, sqlitePath string) (*DB, error) {
	driver, dsn := DriverSQLite, fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", sqlitePath)
	if databaseURL != "" {
		driver, dsn = DriverPostgres, databaseURL
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	return &DB{DB: conn, driver: driver}, nil
}

// NewInMemoryDB creates a new in-memory SQLite database for testing
func NewInMemoryDB() (*DB, error) {
	conn, err := sql.Open(DriverSQLite, ":memory:")
	if err != nil {
		return nil, err
	}

	// every pooled connection would otherwise get its own empty database
	conn.SetMaxOpenConns(1)

	return &DB{DB: conn, driver: DriverSQLite}, nil
}

// Driver returns the name of the SQL driver in use.
func (d *DB) Driver() string {
	return d.driver
}

// rebind rewrites '?' placeholders into '$N' for PostgreSQL.
func (d *DB) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TimeToString converts a time.Time to its UTC storage representation
func TimeToString(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// StringToTime converts a stored timestamp back to time.Time
func StringToTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
