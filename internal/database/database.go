package database

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/migrations"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const (
	// DriverSQLite is used for local files and in-memory databases.
	DriverSQLite = "sqlite3"
	// DriverLibSQL is used for remote Turso databases.
	DriverLibSQL = "libsql"
)

// InitDB opens the database and migrates the schema to the latest version.
// An empty primaryURL opens dbPath as a local SQLite database; ":memory:" is
// supported for tests. The returned teardown closes the connection.
func InitDB(dbPath string, primaryURL string, authToken string) (*sql.DB, func(), error) {
	db, driver, err := open(dbPath, primaryURL, authToken)
	if err != nil {
		return nil, nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate %s database: %w", driver, err)
	}

	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	log.Info("Database initialized successfully", "driver", driver)
	return db, teardown, nil
}

func open(dbPath, primaryURL, authToken string) (*sql.DB, string, error) {
	if primaryURL == "" {
		log.Info("Initializing local-only SQLite database", "path", dbPath)
		dsn := "file:" + dbPath + "?_foreign_keys=on"
		if dbPath == ":memory:" {
			dsn = "file::memory:?_foreign_keys=on"
		}
		db, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open local database: %w", err)
		}
		// SQLite serialises writers anyway; a single connection also keeps an
		// in-memory database alive and shared between queries.
		db.SetMaxOpenConns(1)
		return db, DriverSQLite, nil
	}

	log.Info("Initializing Turso database", "url", primaryURL)
	db, err := sql.Open(DriverLibSQL, primaryURL+"?authToken="+authToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open db %s: %w", primaryURL, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		log.Warn("Could not enable foreign keys on remote database", "error", err)
	}
	return db, DriverLibSQL, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

// gooseLogger routes goose output through the application logger.
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...interface{}) { log.Fatalf(format, v...) }
func (gooseLogger) Printf(format string, v ...interface{}) { log.Debugf(format, v...) }
