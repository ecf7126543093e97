package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/romanzh1/daylog/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type Store struct {
	db     *sqlx.DB
	tx     *sqlx.Tx
	psql   squirrel.StatementBuilderType
	driver string
}

// NewDB connects to the store. driver is either DriverPostgres or DriverSQLite.
func NewDB(driver, dsn string, maxIdle, maxOpen int) (*Store, error) {
	var psql squirrel.StatementBuilderType
	switch driver {
	case DriverPostgres:
		psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
		psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
		// a single writer connection keeps SQLite from returning SQLITE_BUSY on tx upgrades
		maxOpen = 1
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database (driver: %s): %w", driver, err)
	}

	db.SetMaxIdleConns(maxIdle)
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(time.Minute * 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, psql: psql, driver: driver}, nil
}

// sqliteDSN enables foreign keys, a busy timeout and WAL on every pooled
// connection, and makes the driver write times in a layout it can parse back.
func sqliteDSN(dsn string) string {
	params := []string{
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_time_format=sqlite",
	}
	for _, p := range params {
		if strings.Contains(dsn, p) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p
	}
	return dsn
}

func (r Store) Close() error {
	return r.db.Close()
}

func (r Store) Driver() string {
	return r.driver
}

func (r Store) migrationsDir() (dir, dialect string) {
	if r.driver == DriverPostgres {
		return "migrations/postgres", "postgres"
	}
	return "migrations/sqlite", "sqlite3"
}

func (r Store) prepareGoose() (string, error) {
	dir, dialect := r.migrationsDir()
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set migration dialect (dialect: %s): %w", dialect, err)
	}
	return dir, nil
}

func (r Store) Reset() error {
	dir, err := r.prepareGoose()
	if err != nil {
		return err
	}
	if err := goose.Reset(r.db.DB, dir); err != nil {
		return fmt.Errorf("reset migrations (dir: %s): %w", dir, err)
	}

	return nil
}

func (r Store) Up() error {
	dir, err := r.prepareGoose()
	if err != nil {
		return err
	}
	if err := goose.Up(r.db.DB, dir); err != nil {
		return fmt.Errorf("run migrations (dir: %s): %w", dir, err)
	}

	return nil
}

func (r *Store) Begin() (*Store, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &Store{
		db:     r.db,
		tx:     tx,
		psql:   r.psql,
		driver: r.driver,
	}, nil
}

func (r *Store) Commit() error {
	if r.tx == nil {
		return fmt.Errorf("no active transaction to commit")
	}
	return r.tx.Commit()
}

func (r *Store) Rollback() error {
	if r.tx == nil {
		return fmt.Errorf("no active transaction to rollback")
	}
	return r.tx.Rollback()
}

// RunInTx runs fn against a transaction-scoped copy of the store. Calls made
// from inside an existing transaction join it.
func (r *Store) RunInTx(ctx context.Context, fn func(models.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}

	txRepo, err := r.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = txRepo.Rollback()
			panic(p)
		}
	}()

	if err = fn(txRepo); err != nil {
		_ = txRepo.Rollback()
		return err
	}

	return txRepo.Commit()
}

func (r *Store) executor() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.executor().ExecContext(ctx, query, args...)
}

func (r *Store) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	return r.executor().QueryRowxContext(ctx, query, args...)
}

func (r *Store) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, r.executor(), dest, query, args...)
}

func (r *Store) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, r.executor(), dest, query, args...)
}

// insertReturningID runs an INSERT built with squirrel and returns the new row id.
func (r *Store) insertReturningID(ctx context.Context, query squirrel.InsertBuilder) (int64, error) {
	sql, args, err := query.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build SQL query: %w", err)
	}

	var id int64
	if err := r.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			return 0, models.ErrConflict
		}
		return 0, err
	}
	return id, nil
}

// exec builds and runs a squirrel statement, reporting the affected row count.
func (r *Store) exec(ctx context.Context, query squirrel.Sqlizer) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build SQL query: %w", err)
	}

	res, err := r.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// get builds a squirrel select and scans a single row, mapping no rows to models.ErrNotFound.
func (r *Store) get(ctx context.Context, dest any, query squirrel.SelectBuilder) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query: %w", err)
	}

	if err := r.GetContext(ctx, dest, sql, args...); err != nil {
		return notFound(err)
	}
	return nil
}

func (r *Store) selectAll(ctx context.Context, dest any, query squirrel.SelectBuilder) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query: %w", err)
	}

	return r.SelectContext(ctx, dest, sql, args...)
}
