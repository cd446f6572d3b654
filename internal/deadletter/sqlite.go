package deadletter

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// фиксированная ширина, чтобы ORDER BY по строке совпадал с хронологией
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteSink хранит письма в локальной SQLite базе.
type SQLiteSink struct {
	db *sql.DB
}

func NewSQLiteSink(path string) (*SQLiteSink, error) {
	// WAL + busy timeout, чтобы не ловить "database is locked"
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		zap.L().Error(err.Error())
		return nil, fmt.Errorf("open dead letter database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteSink{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS dead_letters(
	  id         TEXT    PRIMARY KEY,
	  created_at TEXT    NOT NULL,
	  records    INTEGER NOT NULL,
	  reason     TEXT    NOT NULL,
	  payload    TEXT    NOT NULL CHECK (json_valid(payload))
	);
	CREATE INDEX IF NOT EXISTS idx_dead_letters_created ON dead_letters(created_at);
	`)
	if err != nil {
		zap.L().Error(err.Error())
		return fmt.Errorf("create dead letter tables: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Store(ctx context.Context, letter Letter) error {
	if !json.Valid(letter.Payload) {
		zap.L().Error(ErrInvalidPayload.Error(), zap.String("id", letter.ID))
		return ErrInvalidPayload
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dead_letters(id, created_at, records, reason, payload) VALUES(?,?,?,?,json(?))`,
		letter.ID,
		letter.CreatedAt.UTC().Format(createdAtLayout),
		letter.Records,
		letter.Reason,
		string(letter.Payload),
	)
	if err != nil {
		zap.L().Error(err.Error())
		return fmt.Errorf("store dead letter %s: %w", letter.ID, err)
	}

	return nil
}

// List возвращает письма от старых к новым.
func (s *SQLiteSink) List(ctx context.Context) ([]Letter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, records, reason, payload FROM dead_letters ORDER BY created_at, id`)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, fmt.Errorf("list dead letters: %w", err)
	}
	defer rows.Close()

	var letters []Letter
	for rows.Next() {
		var (
			l         Letter
			createdAt string
			payload   string
		)
		if err := rows.Scan(&l.ID, &createdAt, &l.Records, &l.Reason, &payload); err != nil {
			zap.L().Error(err.Error())
			return nil, fmt.Errorf("scan dead letter: %w", err)
		}

		l.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
		if err != nil {
			zap.L().Error(err.Error())
			return nil, fmt.Errorf("parse dead letter time: %w", err)
		}
		l.Payload = json.RawMessage(payload)

		letters = append(letters, l)
	}

	return letters, rows.Err()
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
