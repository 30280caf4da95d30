package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/tutorlab/ds-tutor/internal/store"
)

// Store persists chat turns in a local SQLite file. This is the default
// engine.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(path string) (*Store, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		// WAL keeps readers from blocking the writer on the shared file.
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS chat_turns (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_chat_turns_session ON chat_turns (session_id, timestamp, id);
    `
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) AppendTurn(ctx context.Context, sessionID, role, content string) (*store.Turn, error) {
	if !store.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_turns (session_id, role, content) VALUES (?, ?, ?)",
		sessionID, role, content)
	if err != nil {
		return nil, fmt.Errorf("%w: insert turn: %v", store.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: read insert id: %v", store.ErrStorage, err)
	}
	return s.getTurnByID(ctx, id)
}

func (s *Store) getTurnByID(ctx context.Context, id int64) (*store.Turn, error) {
	var t store.Turn
	err := s.db.QueryRowContext(ctx,
		"SELECT id, session_id, role, content, timestamp FROM chat_turns WHERE id = ?", id).
		Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: get turn by id: %v", store.ErrStorage, err)
	}
	return &t, nil
}

func (s *Store) LoadTranscript(ctx context.Context, sessionID string) ([]store.Turn, error) {
	query := `
        SELECT id, session_id, role, content, timestamp
        FROM chat_turns
        WHERE session_id = ?
        ORDER BY timestamp ASC, id ASC
    `

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: query turns: %v", store.ErrStorage, err)
	}
	defer rows.Close()

	var turns []store.Turn
	for rows.Next() {
		var t store.Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: scan turn row: %v", store.ErrStorage, err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate turn rows: %v", store.ErrStorage, err)
	}
	return turns, nil
}
