package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
	dbPath string
}

// Init initializes the database connection and runs migrations
func Init(dbPath string) (*DB, error) {
	// Ensure data directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY under concurrent requests
	sqlDB.SetMaxOpenConns(1)

	db := &DB{sqlDB, dbPath}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// GetDBPath returns the database file path
func (db *DB) GetDBPath() string {
	return db.dbPath
}

// migrate runs database migrations
func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS remembered_values (
			device_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			expires_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (device_id, key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_remembered_values_expires_at ON remembered_values(expires_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			if !isDuplicateColumnError(err) {
				return err
			}
		}
	}

	return nil
}

// isDuplicateColumnError checks if error is about duplicate column
func isDuplicateColumnError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "duplicate column name") ||
		strings.Contains(errStr, "already exists")
}

// UpsertRememberedValue stores value for (deviceID, key), replacing any previous value
func (db *DB) UpsertRememberedValue(ctx context.Context, v *RememberedValue) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO remembered_values (device_id, key, value, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(device_id, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		v.DeviceID, v.Key, v.Value, v.ExpiresAt.UTC(), time.Now().UTC(),
	)
	return err
}

// GetRememberedValue returns the unexpired value for (deviceID, key); nil when absent
func (db *DB) GetRememberedValue(ctx context.Context, deviceID, key string, now time.Time) (*RememberedValue, error) {
	v := &RememberedValue{}
	err := db.QueryRowContext(ctx,
		`SELECT device_id, key, value, expires_at, updated_at
		 FROM remembered_values
		 WHERE device_id = ? AND key = ? AND expires_at > ?`,
		deviceID, key, now.UTC(),
	).Scan(&v.DeviceID, &v.Key, &v.Value, &v.ExpiresAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteRememberedValue removes (deviceID, key); deleting a missing row is not an error
func (db *DB) DeleteRememberedValue(ctx context.Context, deviceID, key string) error {
	_, err := db.ExecContext(ctx,
		"DELETE FROM remembered_values WHERE device_id = ? AND key = ?",
		deviceID, key,
	)
	return err
}

// DeleteExpiredRememberedValues purges rows that expired before now and returns how many went
func (db *DB) DeleteExpiredRememberedValues(ctx context.Context, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		"DELETE FROM remembered_values WHERE expires_at <= ?",
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
