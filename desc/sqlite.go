package desc

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/teranos/parigen/db"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/logger"
)

// SQLiteStore reads records imported into the descriptor_fields table
// (see db/sqlite/migrations).
type SQLiteStore struct {
	conn *sql.DB
	log  *zap.SugaredLogger
}

// NewSQLiteStore wraps an open, migrated database.
func NewSQLiteStore(conn *sql.DB, log *zap.SugaredLogger) *SQLiteStore {
	return &SQLiteStore{conn: conn, log: log}
}

// ReadAll returns the records in import order.
func (s *SQLiteStore) ReadAll() ([]Record, error) {
	rows, err := s.conn.Query(`SELECT ordinal, function, key, value
		FROM descriptor_fields
		ORDER BY ordinal, key`)
	if err != nil {
		return nil, db.StoreError(err, "failed to query descriptor fields")
	}
	defer rows.Close()

	var records []Record
	lastOrdinal := -1
	for rows.Next() {
		var ordinal int
		var function, key, value string
		if err := rows.Scan(&ordinal, &function, &key, &value); err != nil {
			return nil, db.StoreError(err, "failed to scan descriptor field")
		}
		if ordinal != lastOrdinal {
			records = append(records, Record{KeyFunction: function})
			lastOrdinal = ordinal
		}
		records[len(records)-1][key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, db.StoreError(err, "failed to iterate descriptor fields")
	}

	if s.log != nil {
		s.log.Debugw("Read descriptors from database", logger.FieldCount, len(records))
	}
	return records, nil
}

// Import replaces the stored records with records, in a single transaction.
func (s *SQLiteStore) Import(records []Record) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return db.StoreError(err, "begin import")
	}

	if _, err := tx.Exec("DELETE FROM descriptor_fields"); err != nil {
		tx.Rollback()
		return db.StoreError(err, "clear descriptor fields")
	}

	stmt, err := tx.Prepare("INSERT INTO descriptor_fields (ordinal, function, key, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return db.StoreError(err, "prepare insert")
	}
	defer stmt.Close()

	for i, r := range records {
		name := r.Name()
		if name == "" {
			tx.Rollback()
			return errors.NewStoreFailure("record %d has no function name", i)
		}
		for key, value := range r {
			if _, err := stmt.Exec(i, name, key, value); err != nil {
				tx.Rollback()
				return db.StoreError(err, fmt.Sprintf("insert %s.%s", name, key))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return db.StoreError(err, "commit import")
	}

	if s.log != nil {
		s.log.Infow("Imported descriptors", logger.FieldCount, len(records))
	}
	return nil
}
