package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/logger"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// migrationVersion is the numeric prefix of a migration file name,
// e.g. "001" for 001_create_descriptor_fields.sql.
func migrationVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")
	return version
}

// Migrate brings the descriptor schema up to date and returns how many
// migrations it applied. 000 creates schema_migrations and must run first.
func Migrate(db *sql.DB, log *zap.SugaredLogger) (int, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return 0, errors.Wrap(err, "read migrations")
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, filename := range files {
		version := migrationVersion(filename)

		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", version).Scan(&exists)
		switch {
		case err != nil && version != "000":
			return applied, errors.Wrapf(err, "schema_migrations missing before %s", filename)
		case err == nil && exists:
			log.Debugw("Migration already applied", logger.FieldFile, filename, logger.FieldVersion, version)
			continue
		}

		if err := applyMigration(db, filename, version); err != nil {
			return applied, err
		}
		log.Infow("Applied migration", logger.FieldFile, filename, logger.FieldVersion, version)
		applied++
	}

	log.Debugw("Descriptor schema up to date",
		logger.FieldCount, len(files),
		logger.FieldAccepted, applied)
	return applied, nil
}

// applyMigration runs one migration file and records it in a single transaction.
func applyMigration(db *sql.DB, filename, version string) error {
	script, err := migrations.ReadFile(path.Join(migrationsDir, filename))
	if err != nil {
		return errors.Wrapf(err, "read %s", filename)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", filename)
	}
	if _, err := tx.Exec(string(script)); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "execute %s", filename)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "record %s", filename)
	}
	return errors.Wrapf(tx.Commit(), "commit %s", filename)
}
