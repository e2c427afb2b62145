package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"time"

	sqlite "modernc.org/sqlite"
)

//go:embed migrations
var migrationsDir embed.FS

// Database stores calculation history and the log sink. The calculation
// engines never touch it; only the API layer and the scheduled jobs do.
// Reads go through a small pool, writes through a single connection, the
// modernc.org/sqlite arrangement described at
// https://theitsolutions.io/blog/modernc.org-sqlite-with-go.
type Database struct {
	logger *slog.Logger
	read   *sql.DB
	write  *sql.DB
	path   string
}

const initSQL = `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;
	PRAGMA temp_store = MEMORY;
	PRAGMA busy_timeout = 5000;
	PRAGMA automatic_index = true;
	PRAGMA foreign_keys = ON;
	PRAGMA analysis_limit = 1000;
	PRAGMA trusted_schema = OFF;
`

// The hook registry is driver-global, so register once no matter how many
// databases a process opens. Connections join the pool long after New
// returns, hence the background context.
var registerConnInit sync.Once

func New(ctx context.Context, dbPath string) (*Database, error) {
	registerConnInit.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
			_, err := conn.ExecContext(context.Background(), initSQL, nil)
			return err
		})
	})

	read, err := openPool(dbPath, 10)
	if err != nil {
		return nil, fmt.Errorf("open database read pool: %w", err)
	}
	write, err := openPool(dbPath, 1) // a single writer, sqlite allows no more
	if err != nil {
		read.Close()
		return nil, fmt.Errorf("open database write connection: %w", err)
	}

	d := &Database{
		logger: slog.Default().With(slog.String("module", "database")),
		read:   read,
		write:  write,
		path:   dbPath,
	}

	if err := d.migrate(ctx); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return d, nil
}

func openPool(path string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(maxConns)
	pool.SetConnMaxIdleTime(time.Minute)
	return pool, nil
}

// SetLogger swaps the bootstrap logger for the configured one; the database
// has to exist before the full logging stack does.
func (d *Database) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *Database) Close() {
	d.read.Close()
	d.write.Close()
}

var migrationVersion = regexp.MustCompile(`^(\d+)[-_]`)

func (d *Database) migrate(ctx context.Context) error {
	var currVer int
	if err := d.read.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currVer); err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	names, err := migrationFiles()
	if err != nil {
		return err
	}

	// A fresh database has nothing worth backing up yet.
	backupDone := currVer == 0

	for _, name := range names {
		nextVer, err := versionOf(name)
		if err != nil {
			return err
		}
		if nextVer <= currVer {
			continue // already applied
		}

		if !backupDone {
			backupDone = true
			if err := d.Backup(ctx); err != nil {
				return fmt.Errorf("backup database before migration: %w", err)
			}
		}

		d.logger.Debug(fmt.Sprintf("applying migration %d", nextVer))

		data, err := migrationsDir.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", name, err)
		}
		if err := d.applyMigration(ctx, string(data), nextVer); err != nil {
			return err
		}
	}

	return nil
}

func migrationFiles() ([]string, error) {
	files, err := migrationsDir.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}
	var names []string
	for _, f := range files {
		if !f.IsDir() && filepath.Ext(f.Name()) == ".sql" {
			names = append(names, f.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func versionOf(migrationFile string) (int, error) {
	matches := migrationVersion.FindStringSubmatch(migrationFile)
	if len(matches) < 2 {
		return 0, fmt.Errorf("parse version from migration file: %s", migrationFile)
	}
	ver, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("convert migration version from file %s: %w", migrationFile, err)
	}
	return ver, nil
}

// applyMigration runs one migration script and the matching user_version
// bump in a single transaction.
func (d *Database) applyMigration(ctx context.Context, script string, ver int) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction for migration %d: %w", ver, err)
	}

	if _, err := tx.ExecContext(ctx, script); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback migration %d: %w", ver, rbErr)
		}
		return fmt.Errorf("apply migration %d: %w", ver, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d;", ver)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback migration %d: %w", ver, rbErr)
		}
		return fmt.Errorf("update database version for migration %d: %w", ver, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", ver, err)
	}
	return nil
}
