package repository

import (
	"database/sql"
	"errors"
	"time"
)

// KVRepositoryInterface is the durable key-value store the history lives in.
// Get reports found=false for a missing key instead of an error.
type KVRepositoryInterface interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// kvQueries holds the statements for one SQL dialect. Both postgres and
// sqlite accept the same upsert, only placeholders differ.
type kvQueries struct {
	migrate string
	get     string
	set     string
	delete  string
}

var postgresKV = kvQueries{
	migrate: `
        CREATE TABLE IF NOT EXISTS kv_store (
            key        TEXT PRIMARY KEY,
            value      TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `,
	get: `SELECT value FROM kv_store WHERE key=$1`,
	set: `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at
    `,
	delete: `DELETE FROM kv_store WHERE key=$1`,
}

var sqliteKV = kvQueries{
	migrate: `
        CREATE TABLE IF NOT EXISTS kv_store (
            key        TEXT PRIMARY KEY,
            value      TEXT NOT NULL,
            updated_at DATETIME NOT NULL
        )
    `,
	get: `SELECT value FROM kv_store WHERE key=?`,
	set: `
        INSERT INTO kv_store (key, value, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT (key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
    `,
	delete: `DELETE FROM kv_store WHERE key=?`,
}

func kvGet(db *sql.DB, q kvQueries, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(q.get, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func kvSet(db *sql.DB, q kvQueries, key, value string) error {
	_, err := db.Exec(q.set, key, value, time.Now().UTC())
	return err
}

func kvDelete(db *sql.DB, q kvQueries, key string) error {
	_, err := db.Exec(q.delete, key)
	return err
}

// PostgresKVRepository keeps the key-value table in postgres.
type PostgresKVRepository struct {
	DB *sql.DB
}

func (r *PostgresKVRepository) Migrate() error {
	_, err := r.DB.Exec(postgresKV.migrate)
	return err
}

func (r *PostgresKVRepository) Get(key string) (string, bool, error) {
	return kvGet(r.DB, postgresKV, key)
}

func (r *PostgresKVRepository) Set(key, value string) error {
	return kvSet(r.DB, postgresKV, key, value)
}

func (r *PostgresKVRepository) Delete(key string) error {
	return kvDelete(r.DB, postgresKV, key)
}

// SQLiteKVRepository keeps the key-value table in a local sqlite file.
type SQLiteKVRepository struct {
	DB *sql.DB
}

func (r *SQLiteKVRepository) Migrate() error {
	_, err := r.DB.Exec(sqliteKV.migrate)
	return err
}

func (r *SQLiteKVRepository) Get(key string) (string, bool, error) {
	return kvGet(r.DB, sqliteKV, key)
}

func (r *SQLiteKVRepository) Set(key, value string) error {
	return kvSet(r.DB, sqliteKV, key, value)
}

func (r *SQLiteKVRepository) Delete(key string) error {
	return kvDelete(r.DB, sqliteKV, key)
}

var (
	_ KVRepositoryInterface = (*PostgresKVRepository)(nil)
	_ KVRepositoryInterface = (*SQLiteKVRepository)(nil)
)
