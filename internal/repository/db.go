package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"github.com/cohorttools/cohort-tools-api/internal/migrations"
)

const mysqlDuplicateEntry = 1062

// NewDB creates a new MySQL database connection pool with the given DSN and
// verifies it is reachable.
func NewDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// NewMySQLStore builds a Store backed by db.
func NewMySQLStore(db *sql.DB) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Cohorts:  NewCohortRepository(db),
		Students: NewStudentRepository(db),
		ping:     db.PingContext,
		close:    func(context.Context) error { return db.Close() },
	}
}

// isDuplicateEntryError reports whether err is a MySQL unique key violation.
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
