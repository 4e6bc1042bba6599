package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/unclebandit/adcraft/internal/db"
	"github.com/unclebandit/adcraft/internal/model"
)

type GenerationLogRepositoryInterface interface {
	Create(entry *model.GenerationLog) error
	ListRecent(limit int) ([]*model.GenerationLog, error)
	Exists(resultID string) (bool, error)
}

// GenerationLogRepository is the append-only audit table of generated copy.
// Driver selects the placeholder style (postgres or sqlite).
type GenerationLogRepository struct {
	DB     *sql.DB
	Driver string
}

func (r *GenerationLogRepository) Migrate() error {
	query := `
        CREATE TABLE IF NOT EXISTS generation_log (
            id           SERIAL PRIMARY KEY,
            result_id    TEXT NOT NULL UNIQUE,
            product_name TEXT NOT NULL,
            platform     TEXT NOT NULL,
            tone         TEXT NOT NULL,
            payload      TEXT NOT NULL,
            generated_at TIMESTAMPTZ NOT NULL,
            created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `
	if r.Driver == db.DriverSQLite {
		query = `
            CREATE TABLE IF NOT EXISTS generation_log (
                id           INTEGER PRIMARY KEY AUTOINCREMENT,
                result_id    TEXT NOT NULL UNIQUE,
                product_name TEXT NOT NULL,
                platform     TEXT NOT NULL,
                tone         TEXT NOT NULL,
                payload      TEXT NOT NULL,
                generated_at DATETIME NOT NULL,
                created_at   DATETIME NOT NULL
            )
        `
	}
	_, err := r.DB.Exec(query)
	return err
}

// bind rewrites $N placeholders for sqlite.
func (r *GenerationLogRepository) bind(query string, n int) string {
	if r.Driver != db.DriverSQLite {
		return query
	}
	for i := n; i >= 1; i-- {
		query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), "?")
	}
	return query
}

// Create inserts an entry. Replayed events for the same result are ignored so
// redelivery from the queue is harmless.
func (r *GenerationLogRepository) Create(entry *model.GenerationLog) error {
	entry.CreatedAt = time.Now().UTC()
	query := r.bind(`
        INSERT INTO generation_log (result_id, product_name, platform, tone, payload, generated_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (result_id) DO NOTHING
    `, 7)
	res, err := r.DB.Exec(query, entry.ResultID, entry.ProductName, entry.Platform, entry.Tone, entry.Payload, entry.GeneratedAt, entry.CreatedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}
	return r.DB.QueryRow(r.bind(`SELECT id FROM generation_log WHERE result_id=$1`, 1), entry.ResultID).Scan(&entry.ID)
}

func (r *GenerationLogRepository) ListRecent(limit int) ([]*model.GenerationLog, error) {
	if limit < 1 {
		limit = model.HistoryLimit
	}
	query := r.bind(`
        SELECT id, result_id, product_name, platform, tone, payload, generated_at, created_at
        FROM generation_log
        ORDER BY generated_at DESC, id DESC
        LIMIT $1
    `, 1)
	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*model.GenerationLog{}
	for rows.Next() {
		e := &model.GenerationLog{}
		if err := rows.Scan(&e.ID, &e.ResultID, &e.ProductName, &e.Platform, &e.Tone, &e.Payload, &e.GeneratedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *GenerationLogRepository) Exists(resultID string) (bool, error) {
	var count int
	err := r.DB.QueryRow(r.bind(`SELECT COUNT(*) FROM generation_log WHERE result_id=$1`, 1), resultID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ GenerationLogRepositoryInterface = (*GenerationLogRepository)(nil)
