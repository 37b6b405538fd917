package tokenstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/civicwatch/internal/client/migrations"
	"github.com/dmitrijs2005/civicwatch/internal/client/repositories/session"
	"github.com/dmitrijs2005/civicwatch/internal/common"
	"github.com/dmitrijs2005/civicwatch/internal/dbx"

	_ "modernc.org/sqlite"
)

// SQLite stores the token in the session table of the client database.
type SQLite struct {
	db   *sql.DB
	repo *session.SQLiteRepository
	now  func() time.Time
}

// Open opens (creating if needed) the SQLite database at path and applies
// migrations. Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open token database: %w", err)
	}
	// one connection: SQLite serialises writers, and ":memory:" databases are per connection
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLite(db), nil
}

// NewSQLite wraps an already migrated database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, repo: session.NewSQLiteRepository(db), now: time.Now}
}

func (s *SQLite) Save(ctx context.Context, token string) error {
	if token == "" {
		return s.Remove(ctx)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo.WithDB(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, token); err != nil {
			return err
		}
		return repo.Set(ctx, common.SavedAtKey, s.now().UTC().Format(time.RFC3339))
	})
}

func (s *SQLite) Get(ctx context.Context) (string, error) {
	token, _, err := s.repo.Get(ctx, common.AccessTokenKey)
	return token, err
}

func (s *SQLite) Remove(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo.WithDB(tx)
		if err := repo.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.SavedAtKey)
	})
}

// SavedAt reports when the current token was stored. ok is false when no
// token is stored.
func (s *SQLite) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	raw, ok, err := s.repo.Get(ctx, common.SavedAtKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt %s: %w", common.SavedAtKey, err)
	}
	return t, true, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
