package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Connect opens a database for the given driver ("sqlite" or "mysql") and checks it is reachable.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// A single writer keeps SQLite away from SQLITE_BUSY and keeps
		// in-memory databases on one connection.
		db.SetMaxOpenConns(1)
		return db, nil
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
