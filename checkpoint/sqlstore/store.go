// Package sqlstore implements the checkpoint store on database/sql.
//
// It is driver-agnostic behind a small dialect layer for placeholder syntax
// and DDL differences. Tested against modernc.org/sqlite; DialectPostgres
// works with lib/pq.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/youssefsiam38/chatpg/checkpoint"
	"github.com/youssefsiam38/chatpg/types"
)

// Dialect selects placeholder and DDL syntax for the underlying driver.
type Dialect string

const (
	// DialectSQLite targets SQLite drivers such as modernc.org/sqlite.
	DialectSQLite Dialect = "sqlite"

	// DialectPostgres targets PostgreSQL drivers such as lib/pq.
	DialectPostgres Dialect = "postgres"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS chatpg_checkpoints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		state TEXT NOT NULL,
		created_at_ns INTEGER NOT NULL,
		UNIQUE (session_id, seq)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_chatpg_checkpoints_session ON chatpg_checkpoints (session_id, seq);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS chatpg_checkpoints (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		seq BIGINT NOT NULL,
		state TEXT NOT NULL,
		created_at_ns BIGINT NOT NULL,
		UNIQUE (session_id, seq)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_chatpg_checkpoints_session ON chatpg_checkpoints (session_id, seq);`,
}

// Store implements checkpoint.Store using database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New creates a checkpoint store on the given database handle.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate creates the checkpoint table and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.dialect == DialectPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migrate: %v", checkpoint.ErrUnavailable, err)
		}
	}
	return nil
}

// placeholder returns the n-th positional placeholder for the dialect.
func (s *Store) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Append persists state as the session's next checkpoint. The sequence
// number is derived and the row inserted in one statement, so the write is
// atomic and per-session ordering holds under the caller's single-writer
// discipline.
func (s *Store) Append(ctx context.Context, sessionID string, state types.Session) (int64, error) {
	data, err := checkpoint.EncodeState(state)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		INSERT INTO chatpg_checkpoints (session_id, seq, state, created_at_ns)
		SELECT %s, COALESCE(MAX(seq), 0) + 1, %s, %s
		FROM chatpg_checkpoints WHERE session_id = %s
		RETURNING seq
	`, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4))

	var seq int64
	err = s.db.QueryRowContext(ctx, query,
		sessionID, string(data), time.Now().UnixNano(), sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("%w: append: %v", checkpoint.ErrUnavailable, err)
	}
	return seq, nil
}

// Latest returns the session's newest checkpoint, or checkpoint.ErrNotFound.
func (s *Store) Latest(ctx context.Context, sessionID string) (*types.Checkpoint, error) {
	query := fmt.Sprintf(`
		SELECT seq, state, created_at_ns
		FROM chatpg_checkpoints
		WHERE session_id = %s
		ORDER BY seq DESC
		LIMIT 1
	`, s.placeholder(1))

	var (
		seq       int64
		data      string
		createdNs int64
	)
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&seq, &data, &createdNs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, checkpoint.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: latest: %v", checkpoint.ErrUnavailable, err)
	}

	state, err := checkpoint.DecodeState(sessionID, []byte(data))
	if err != nil {
		return nil, err
	}
	return &types.Checkpoint{
		SessionID: sessionID,
		Seq:       seq,
		State:     state,
		CreatedAt: time.Unix(0, createdNs),
	}, nil
}

// History returns a cursor over the session's checkpoints ordered by
// descending sequence number (newest first).
func (s *Store) History(ctx context.Context, sessionID string) (checkpoint.Cursor, error) {
	query := fmt.Sprintf(`
		SELECT seq, state, created_at_ns
		FROM chatpg_checkpoints
		WHERE session_id = %s
		ORDER BY seq DESC
	`, s.placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: history: %v", checkpoint.ErrUnavailable, err)
	}
	return &rowsCursor{rows: rows, sessionID: sessionID}, nil
}

// ListSessions returns session ids ordered by last write, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	query := `
		SELECT session_id
		FROM chatpg_checkpoints
		GROUP BY session_id
		ORDER BY MAX(id) DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", checkpoint.ErrUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: list sessions: %v", checkpoint.ErrUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list sessions: %v", checkpoint.ErrUnavailable, err)
	}
	return ids, nil
}

// Delete removes every checkpoint for the session. Idempotent.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	query := fmt.Sprintf(`DELETE FROM chatpg_checkpoints WHERE session_id = %s`, s.placeholder(1))
	if _, err := s.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("%w: delete: %v", checkpoint.ErrUnavailable, err)
	}
	return nil
}

// rowsCursor adapts sql.Rows to the checkpoint.Cursor interface, decoding
// records lazily as the caller advances.
type rowsCursor struct {
	rows      *sql.Rows
	sessionID string
	current   types.Checkpoint
	err       error
}

func (c *rowsCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}

	var (
		seq       int64
		data      string
		createdNs int64
	)
	if err := c.rows.Scan(&seq, &data, &createdNs); err != nil {
		c.err = fmt.Errorf("%w: history scan: %v", checkpoint.ErrUnavailable, err)
		return false
	}
	state, err := checkpoint.DecodeState(c.sessionID, []byte(data))
	if err != nil {
		c.err = err
		return false
	}
	c.current = types.Checkpoint{
		SessionID: c.sessionID,
		Seq:       seq,
		State:     state,
		CreatedAt: time.Unix(0, createdNs),
	}
	return true
}

func (c *rowsCursor) Checkpoint() types.Checkpoint { return c.current }

func (c *rowsCursor) Err() error { return c.err }

func (c *rowsCursor) Close() error { return c.rows.Close() }
