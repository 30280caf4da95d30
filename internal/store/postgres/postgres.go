package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorlab/ds-tutor/internal/store"
)

// Compile-time check to ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store persists chat turns in PostgreSQL. Selected when the database URL
// carries a postgres scheme.
type Store struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS chat_turns (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_chat_turns_session ON chat_turns (session_id, timestamp, id);`

	_, err := s.db.Exec(ctx, schema)
	return err
}

func (s *Store) AppendTurn(ctx context.Context, sessionID, role, content string) (*store.Turn, error) {
	if !store.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	query := `
		INSERT INTO chat_turns (session_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, role, content, timestamp`

	var t store.Turn
	err := s.db.QueryRow(ctx, query, sessionID, role, content).Scan(
		&t.ID,
		&t.SessionID,
		&t.Role,
		&t.Content,
		&t.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert turn: %v", store.ErrStorage, err)
	}
	return &t, nil
}

func (s *Store) LoadTranscript(ctx context.Context, sessionID string) ([]store.Turn, error) {
	query := `
		SELECT id, session_id, role, content, timestamp
		FROM chat_turns
		WHERE session_id = $1
		ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.Query(ctx, query, sessionID)
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
