package migrate

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/psqlbuilder"
)

//go:embed sql/*.sql
var embedded embed.FS

// ErrLoadMigrations возвращается, если файлы миграций не удалось прочитать
var ErrLoadMigrations = errors.New("migrate: failed to load migrations")

// TxManager выполняет функцию в транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Migration одна миграция из SQL файла
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Status состояние миграции
type Status struct {
	Version   int
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Migrator применяет пронумерованные SQL миграции и учитывает их в schema_migrations
type Migrator struct {
	db        dbmetrics.DBExecutor
	txManager TxManager
	files     fs.FS
	dir       string
}

// NewMigrator мигратор со встроенными в бинарник миграциями
func NewMigrator(db dbmetrics.DBExecutor, txManager TxManager) *Migrator {
	return NewMigratorFS(db, txManager, embedded, "sql")
}

// NewMigratorFS мигратор, читающий миграции из произвольной файловой системы
func NewMigratorFS(db dbmetrics.DBExecutor, txManager TxManager, files fs.FS, dir string) *Migrator {
	return &Migrator{db: db, txManager: txManager, files: files, dir: dir}
}

// Load читает файлы вида 001_name.sql и сортирует их по версии
// Файлы без числового префикса пропускаются
func (m *Migrator) Load() ([]Migration, error) {
	entries, err := fs.ReadDir(m.files, m.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read dir %s: %v", ErrLoadMigrations, m.dir, err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}

		content, err := fs.ReadFile(m.files, path.Join(m.dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrLoadMigrations, name, err)
		}

		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// Up применяет все непримененные миграции, каждую в своей транзакции
// Возвращает количество примененных миграций
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}

	migrations, err := m.Load()
	if err != nil {
		return 0, err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mig := range migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return count, fmt.Errorf("migrate: apply %d (%s): %w", mig.Version, mig.Name, err)
		}
		count++
	}

	return count, nil
}

// Status возвращает состояние всех известных миграций
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	migrations, err := m.Load()
	if err != nil {
		return nil, err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(migrations))
	for _, mig := range migrations {
		st := Status{Version: mig.Version, Name: mig.Name}
		if at, ok := applied[mig.Version]; ok {
			st.Applied = true
			st.AppliedAt = &at
		}
		statuses = append(statuses, st)
	}

	return statuses, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	query, args, err := psqlbuilder.Select("version", "applied_at").
		From("schema_migrations").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("migrate: build select: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("migrate: query applied versions: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("migrate: scan version: %w", err)
		}
		applied[version] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("migrate: iterate versions: %w", err)
	}

	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	return m.txManager.Do(ctx, func(txCtx context.Context) error {
		executor := dbmetrics.GetExecutor(txCtx, m.db)

		if _, err := executor.ExecContext(txCtx, mig.SQL); err != nil {
			return fmt.Errorf("execute sql: %w", err)
		}

		query, args, err := psqlbuilder.Insert("schema_migrations").
			Columns("version", "name").
			Values(mig.Version, mig.Name).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
			return fmt.Errorf("record migration: %w", err)
		}
		return nil
	})
}
