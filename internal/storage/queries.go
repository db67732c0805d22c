package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type sessionRow struct {
	ID        string
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

const insertSession = `INSERT INTO sessions (id, token, username, created_at, expires_at)
VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertSession(ctx context.Context, arg sessionRow) error {
	_, err := q.db.ExecContext(ctx, insertSession,
		arg.ID, arg.Token, arg.Username, arg.CreatedAt.UTC(), arg.ExpiresAt.UTC())
	return err
}

const selectSession = `SELECT id, token, username, created_at, expires_at
FROM sessions WHERE id = ?`

func (q *Queries) SelectSession(ctx context.Context, id string) (sessionRow, error) {
	row := q.db.QueryRowContext(ctx, selectSession, id)
	var s sessionRow
	err := row.Scan(&s.ID, &s.Token, &s.Username, &s.CreatedAt, &s.ExpiresAt)
	return s, err
}

const deleteSession = `DELETE FROM sessions WHERE id = ?`

func (q *Queries) DeleteSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, id)
	return err
}

const deleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= ?`

func (q *Queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredSessions, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
