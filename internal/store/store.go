package store

import (
	"context"
	"errors"
)

// ErrStorage marks a failure of the underlying database connection or write
// path. Engine implementations wrap it so callers can classify failures with
// errors.Is.
var ErrStorage = errors.New("storage failure")

// Store is an append-only log of chat turns grouped by session id. No update
// or delete operations are exposed; a session's history is immutable once
// written.
type Store interface {
	// AppendTurn durably persists one turn as a single atomic insert and
	// returns the stored row with its assigned id and timestamp.
	AppendTurn(ctx context.Context, sessionID, role, content string) (*Turn, error)

	// LoadTranscript returns every turn of a session ordered by timestamp
	// ascending, ties broken by id. An unknown session yields an empty
	// result, not an error.
	LoadTranscript(ctx context.Context, sessionID string) ([]Turn, error)

	Close() error
}
