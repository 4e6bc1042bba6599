package repository

import (
	"database/sql"
	"fmt"

	"github.com/unclebandit/adcraft/internal/db"
)

// Storage bundles the repositories backed by one database handle. For the
// memory driver DB and Logs are nil.
type Storage struct {
	DB   *sql.DB
	KV   KVRepositoryInterface
	Logs *GenerationLogRepository
}

// OpenStorage connects to driver/dsn and creates the tables. An empty driver
// selects the in-memory key-value store.
func OpenStorage(driver, dsn string) (*Storage, error) {
	if driver == "" {
		return &Storage{KV: NewMemoryKVRepository()}, nil
	}

	conn, err := db.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	s := &Storage{DB: conn, Logs: &GenerationLogRepository{DB: conn, Driver: driver}}
	switch driver {
	case db.DriverPostgres:
		kv := &PostgresKVRepository{DB: conn}
		err = kv.Migrate()
		s.KV = kv
	case db.DriverSQLite:
		kv := &SQLiteKVRepository{DB: conn}
		err = kv.Migrate()
		s.KV = kv
	default:
		err = fmt.Errorf("unsupported driver %s", driver)
	}
	if err == nil {
		err = s.Logs.Migrate()
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate %s storage: %w", driver, err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// LogRepository returns Logs as an interface, nil when there is no database.
func (s *Storage) LogRepository() GenerationLogRepositoryInterface {
	if s.Logs == nil {
		return nil
	}
	return s.Logs
}
