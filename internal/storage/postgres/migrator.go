package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir    = "sql/migrations"
	migrationLockKey = int64(20250431)

	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

const ensureVersionsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// migration описывает одну пару up/down файлов.
type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrateUp применяет up-миграции.
// steps=0 означает "применить все доступные".
func (s *Store) MigrateUp(ctx context.Context, steps int) error {
	return s.withMigrationLock(ctx, func(r *migrationRunner) error {
		return r.up(ctx, steps)
	})
}

// MigrateDown откатывает миграции.
// steps<=0 интерпретируется как 1 шаг для безопасного поведения.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return s.withMigrationLock(ctx, func(r *migrationRunner) error {
		return r.down(ctx, steps)
	})
}

// MigrationStatus возвращает текущую версию и количество применённых миграций.
func (s *Store) MigrationStatus(ctx context.Context) (int64, int, error) {
	if s == nil || s.db == nil {
		return 0, 0, fmt.Errorf("postgres store is not initialized")
	}

	queryCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(queryCtx, ensureVersionsTable); err != nil {
		return 0, 0, fmt.Errorf("ensure migration table: %w", err)
	}

	var (
		version int64
		count   int
	)
	row := s.db.QueryRowContext(queryCtx,
		`SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`)
	if err := row.Scan(&version, &count); err != nil {
		return 0, 0, fmt.Errorf("query migration status: %w", err)
	}
	return version, count, nil
}

// withMigrationLock берёт advisory lock на выделенном соединении,
// готовит таблицу версий и передаёт runner в fn.
func (s *Store) withMigrationLock(ctx context.Context, fn func(*migrationRunner) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	all, err := loadMigrationsFromFS(migrationsFS)
	if err != nil {
		return err
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockKey)
	}()

	if _, err := conn.ExecContext(ctx, ensureVersionsTable); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	return fn(&migrationRunner{conn: conn, all: all})
}

// migrationRunner применяет миграции на соединении с захваченным lock.
type migrationRunner struct {
	conn *sql.Conn
	all  []migration
}

func (r *migrationRunner) up(ctx context.Context, steps int) error {
	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return err
	}
	done := make(map[int64]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}

	ran := 0
	for _, m := range r.all {
		if _, ok := done[m.Version]; ok {
			continue
		}
		if err := r.runOne(ctx, m, true); err != nil {
			return err
		}
		if ran++; steps > 0 && ran >= steps {
			break
		}
	}
	return nil
}

func (r *migrationRunner) down(ctx context.Context, steps int) error {
	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return err
	}

	byVersion := make(map[int64]migration, len(r.all))
	for _, m := range r.all {
		byVersion[m.Version] = m
	}

	// Откатываем от самой свежей версии к более старым.
	for i := len(applied) - 1; i >= 0 && steps > 0; i, steps = i-1, steps-1 {
		m, ok := byVersion[applied[i]]
		if !ok {
			return fmt.Errorf("cannot rollback unknown migration version %d", applied[i])
		}
		if err := r.runOne(ctx, m, false); err != nil {
			return err
		}
	}
	return nil
}

// runOne выполняет тело миграции и запись в schema_migrations в одной транзакции.
func (r *migrationRunner) runOne(ctx context.Context, m migration, up bool) error {
	label := fmt.Sprintf("%d_%s", m.Version, m.Name)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for migration %s: %w", label, err)
	}

	run := func() error {
		if up {
			if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
				return fmt.Errorf("apply migration %s: %w", label, err)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, NOW())`,
				m.Version, m.Name)
			if err != nil {
				return fmt.Errorf("record migration %s: %w", label, err)
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx, m.DownSQL); err != nil {
			return fmt.Errorf("rollback migration %s: %w", label, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM schema_migrations WHERE version = $1`, m.Version); err != nil {
			return fmt.Errorf("unrecord migration %s: %w", label, err)
		}
		return nil
	}

	if err := run(); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", label, err)
	}
	return nil
}

// appliedVersions возвращает применённые версии по возрастанию.
func (r *migrationRunner) appliedVersions(ctx context.Context) ([]int64, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan applied migration version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}
	return versions, nil
}

// loadMigrationsFromFS читает пары NNNN_name.{up,down}.sql и
// возвращает их отсортированными по версии.
func loadMigrationsFromFS(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, migrationsDir+"/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration, len(files)/2)
	for _, file := range files {
		base := path.Base(file)

		up := strings.HasSuffix(base, upSuffix)
		stem := strings.TrimSuffix(base, upSuffix)
		if !up {
			stem = strings.TrimSuffix(base, downSuffix)
			if stem == base {
				return nil, fmt.Errorf("invalid migration file name: %s", base)
			}
		}

		versionStr, name, ok := strings.Cut(stem, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid migration file name: %s", base)
		}
		version, err := strconv.ParseInt(versionStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", base, err)
		}

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration file is empty: %s", base)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{Version: version, Name: name}
			byVersion[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, m.Name, name)
		}

		if up {
			if m.UpSQL != "" {
				return nil, fmt.Errorf("duplicate up migration for version %d", version)
			}
			m.UpSQL = body
		} else {
			if m.DownSQL != "" {
				return nil, fmt.Errorf("duplicate down migration for version %d", version)
			}
			m.DownSQL = body
		}
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration %d_%s must have both up and down files", m.Version, m.Name)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
