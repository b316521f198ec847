// Package pg implements the tenant directory, subscription record store and
// refresh token store on Postgres.
package pg

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
)

// Store owns the connection pool and exposes one sub-store per repository
// contract.
type Store struct {
	db *sql.DB

	Tenants       *TenantStore
	Subscriptions *SubscriptionStore
	RefreshTokens *RefreshTokenStore
}

// Open connects to Postgres via the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "[pg.Open] open")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing pool. Used by tests with sqlmock.
func NewWithDB(db *sql.DB) *Store {
	return &Store{
		db:            db,
		Tenants:       &TenantStore{db: db},
		Subscriptions: &SubscriptionStore{db: db},
		RefreshTokens: &RefreshTokenStore{db: db},
	}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
