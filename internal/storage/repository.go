package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable SessionStore.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ SessionStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable; used by readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, s Session) error {
	err := r.queries.InsertSession(ctx, sessionRow{
		ID:        s.ID,
		Token:     s.Token,
		Username:  s.Username,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	slog.DebugContext(ctx, "Session stored", "username", s.Username, "expires_at", s.ExpiresAt)
	return nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (Session, error) {
	row, err := r.queries.SelectSession(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	s := Session{
		ID:        row.ID,
		Token:     row.Token,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}
	if s.Expired(time.Now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, id string) error {
	if err := r.queries.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.queries.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Expired sessions purged", "count", n)
	}
	return n, nil
}
