// Package store owns the durable local database: opening the SQLite file,
// applying schema migrations and handing out the repository bundle. The
// store is the sole source of truth for anything the server has not yet
// acknowledged.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/pos/migrations"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/pending"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/products"
	"github.com/pressly/goose/v3"
)

// Store bundles the namespace repositories backed by one database handle.
type Store struct {
	db       *sql.DB
	Pending  pending.Repository
	Products products.Repository
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// New opens the database at dsn, migrates the schema and builds the
// repositories. Tests inject an in-memory DSN here; production code goes
// through an Opener so setup runs once per process.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", common.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate database: %v", common.ErrStorageUnavailable, err)
	}

	return &Store{
		db:       db,
		Pending:  pending.NewSQLiteRepository(db),
		Products: products.NewSQLiteRepository(db),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Opener is the store-ready future: the first Open call performs setup and
// every caller, concurrent ones included, receives the same store instance
// and the same error. Setup never runs twice.
type Opener struct {
	dsn   string
	once  sync.Once
	store *Store
	err   error
}

func NewOpener(dsn string) *Opener {
	return &Opener{dsn: dsn}
}

// Open returns the shared store, performing open+migrate on first use.
func (o *Opener) Open(ctx context.Context) (*Store, error) {
	o.once.Do(func() {
		o.store, o.err = New(ctx, o.dsn)
	})
	return o.store, o.err
}
