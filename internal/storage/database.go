package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"aprende/internal/contextutil"
)

//go:embed migrations
var migrationsFS embed.FS

// Dialect identifies the SQL backend behind a DATABASE_URL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Source is a parsed DATABASE_URL.
type Source struct {
	Dialect Dialect
	// DSN is what gets handed to sql.Open.
	DSN string
	// Path is the database file for SQLite sources, empty otherwise.
	Path string
}

// ParseURL maps a DATABASE_URL to a dialect and driver DSN.
// postgres:// and postgresql:// select PostgreSQL. sqlite://path, file: URIs and bare paths select SQLite.
func ParseURL(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, errors.New("database url is empty")
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Source{Dialect: DialectPostgres, DSN: raw}, nil
	case strings.HasPrefix(lower, "sqlite://"):
		path := raw[len("sqlite://"):]
		if path == "" {
			return Source{}, fmt.Errorf("database url %q has no path", raw)
		}
		return sqliteSource(path), nil
	case strings.HasPrefix(lower, "file:"):
		path := raw[len("file:"):]
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		return Source{Dialect: DialectSQLite, DSN: withSQLiteParams(raw), Path: path}, nil
	case strings.Contains(raw, "://"):
		return Source{}, fmt.Errorf("unsupported database url scheme in %q", raw)
	default:
		return sqliteSource(raw), nil
	}
}

func sqliteSource(path string) Source {
	bare := path
	if i := strings.IndexByte(bare, '?'); i >= 0 {
		bare = bare[:i]
	}
	return Source{Dialect: DialectSQLite, DSN: withSQLiteParams(path), Path: bare}
}

// withSQLiteParams enables foreign keys and a busy timeout unless the DSN already sets them.
func withSQLiteParams(dsn string) string {
	params := []string{}
	if !strings.Contains(dsn, "_busy_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if !strings.Contains(dsn, "_foreign_keys") {
		params = append(params, "_foreign_keys=on")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Options configure the connection pool.
type Options struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps a *sql.DB together with its dialect and a matching query builder.
type DB struct {
	db      *sql.DB
	source  Source
	builder sq.StatementBuilderType
}

// Open opens the database described by opts.URL and verifies the connection.
// SQLite files get their parent directory created.
func Open(ctx context.Context, opts Options) (*DB, error) {
	source, err := ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	driver := "pgx"
	if source.Dialect == DialectSQLite {
		driver = "sqlite3"
		if err := ensureDir(source.Path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, source.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", source.Dialect, err)
	}

	if source.Dialect == DialectSQLite {
		// SQLite allows a single writer; serialize access through one connection.
		db.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", source.Dialect, err)
	}

	return &DB{
		db:      db,
		source:  source,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholderFormat(source.Dialect)),
	}, nil
}

func placeholderFormat(dialect Dialect) sq.PlaceholderFormat {
	if dialect == DialectSQLite {
		return sq.Question
	}
	return sq.Dollar
}

func ensureDir(path string) error {
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %s: %w", dir, err)
	}
	return nil
}

// Dialect returns the backend in use.
func (d *DB) Dialect() Dialect {
	return d.source.Dialect
}

// Source returns the parsed DATABASE_URL.
func (d *DB) Source() Source {
	return d.source
}

// SQL exposes the underlying handle.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Close closes the pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping verifies the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate applies the embedded goose migrations for the active dialect.
// It is idempotent and can be run multiple times safely.
func (d *DB) Migrate(ctx context.Context) error {
	dir, err := fs.Sub(migrationsFS, "migrations/"+string(d.source.Dialect))
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", d.source.Dialect, err)
	}

	dialect := goose.DialectPostgres
	if d.source.Dialect == DialectSQLite {
		dialect = goose.DialectSQLite3
	}

	provider, err := goose.NewProvider(dialect, d.db, dir)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	logger := contextutil.LoggerFromContext(ctx)
	for _, r := range results {
		logger.InfoContext(ctx, "applied migration",
			"version", r.Source.Version,
			"file", filepath.Base(r.Source.Path),
			"duration", r.Duration,
		)
	}
	return nil
}

// insertionOrder is the column that breaks ties between rows with equal timestamps.
func (d *DB) insertionOrder() string {
	if d.source.Dialect == DialectSQLite {
		return "rowid"
	}
	return "seq"
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// q returns the transaction bound to ctx, or the pool.
func (d *DB) q(ctx context.Context) querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return d.db
}

// RunInTx executes fn within a database transaction.
// Repositories called with the ctx passed to fn join the transaction.
// A ctx that already carries a transaction is reused as is.
// On error from fn: rolls back and returns the error.
// On panic from fn: rolls back and re-panics.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
