package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect names a supported database/sql driver.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case MySQL, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q (want mysql or sqlite)", s)
	}
}

type Options struct {
	Dialect      Dialect
	DSN          string
	MaxOpenConns int
}

// Open connects and pings the database. MySQL DSNs are forced to parse
// DATETIME columns in UTC; SQLite runs on a single connection with foreign
// keys enforced.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
	dsn, err := normalizeDSN(o.Dialect, o.DSN)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(string(o.Dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	switch o.Dialect {
	case SQLite:
		// Writers serialize on one connection; an in-memory database also
		// lives only as long as its connection.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	default:
		if o.MaxOpenConns > 0 {
			db.SetMaxOpenConns(o.MaxOpenConns)
			db.SetMaxIdleConns(o.MaxOpenConns)
		}
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func normalizeDSN(d Dialect, dsn string) (string, error) {
	switch d {
	case MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		// rows matched, not rows changed, so an unchanged update is not a miss
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	case SQLite:
		if strings.Contains(dsn, "foreign_keys") {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}
