// Package pgxstore implements the checkpoint store on PostgreSQL using
// jackc/pgx/v5.
package pgxstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/youssefsiam38/chatpg/checkpoint"
	"github.com/youssefsiam38/chatpg/types"
)

// txContextKey is the context key for storing pgx.Tx
type txContextKey struct{}

// WithTx returns a new context with the given transaction. Store operations
// performed with this context run inside the transaction, which lets callers
// combine checkpoint writes with their own database operations atomically.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext retrieves the transaction from context, or nil if not present
func TxFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// querier is a common interface for pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema is the DDL for the checkpoint table, one statement per entry.
// Run it once via Migrate or an external migration tool.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS chatpg_checkpoints (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		seq BIGINT NOT NULL,
		state JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (session_id, seq)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_chatpg_checkpoints_session ON chatpg_checkpoints (session_id, seq);`,
}

// Store implements checkpoint.Store using PostgreSQL with pgx.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL checkpoint store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the checkpoint table and index if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migrate: %v", checkpoint.ErrUnavailable, err)
		}
	}
	return nil
}

// getQuerier returns the transaction from context if present, otherwise the pool
func (s *Store) getQuerier(ctx context.Context) querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

// Append persists state as the session's next checkpoint and returns the
// assigned sequence number.
func (s *Store) Append(ctx context.Context, sessionID string, state types.Session) (int64, error) {
	data, err := checkpoint.EncodeState(state)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO chatpg_checkpoints (session_id, seq, state)
		SELECT $1, COALESCE(MAX(seq), 0) + 1, $2
		FROM chatpg_checkpoints WHERE session_id = $3
		RETURNING seq
	`

	var seq int64
	err = s.getQuerier(ctx).QueryRow(ctx, query, sessionID, data, sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("%w: append: %v", checkpoint.ErrUnavailable, err)
	}
	return seq, nil
}

// Latest returns the session's newest checkpoint, or checkpoint.ErrNotFound.
func (s *Store) Latest(ctx context.Context, sessionID string) (*types.Checkpoint, error) {
	query := `
		SELECT seq, state, created_at
		FROM chatpg_checkpoints
		WHERE session_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`

	var (
		seq       int64
		data      []byte
		createdAt time.Time
	)
	err := s.getQuerier(ctx).QueryRow(ctx, query, sessionID).Scan(&seq, &data, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, checkpoint.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: latest: %v", checkpoint.ErrUnavailable, err)
	}

	state, err := checkpoint.DecodeState(sessionID, data)
	if err != nil {
		return nil, err
	}
	return &types.Checkpoint{
		SessionID: sessionID,
		Seq:       seq,
		State:     state,
		CreatedAt: createdAt,
	}, nil
}

// History returns a cursor over the session's checkpoints ordered by
// descending sequence number (newest first).
func (s *Store) History(ctx context.Context, sessionID string) (checkpoint.Cursor, error) {
	query := `
		SELECT seq, state, created_at
		FROM chatpg_checkpoints
		WHERE session_id = $1
		ORDER BY seq DESC
	`

	rows, err := s.getQuerier(ctx).Query(ctx, query, sessionID)
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

	rows, err := s.getQuerier(ctx).Query(ctx, query)
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
	query := `DELETE FROM chatpg_checkpoints WHERE session_id = $1`
	if _, err := s.getQuerier(ctx).Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("%w: delete: %v", checkpoint.ErrUnavailable, err)
	}
	return nil
}

// rowsCursor adapts pgx.Rows to the checkpoint.Cursor interface.
type rowsCursor struct {
	rows      pgx.Rows
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
		data      []byte
		createdAt time.Time
	)
	if err := c.rows.Scan(&seq, &data, &createdAt); err != nil {
		c.err = fmt.Errorf("%w: history scan: %v", checkpoint.ErrUnavailable, err)
		return false
	}
	state, err := checkpoint.DecodeState(c.sessionID, data)
	if err != nil {
		c.err = err
		return false
	}
	c.current = types.Checkpoint{
		SessionID: c.sessionID,
		Seq:       seq,
		State:     state,
		CreatedAt: createdAt,
	}
	return true
}

func (c *rowsCursor) Checkpoint() types.Checkpoint { return c.current }

func (c *rowsCursor) Err() error { return c.err }

func (c *rowsCursor) Close() error {
	c.rows.Close()
	return nil
}
