package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/filex"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/repomanager"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippets"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippetstates"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/tags"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/users"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Client is the persistence handle shared by every command.
type Client struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewClient(db *sql.DB, repos repomanager.RepositoryManager) *Client {
	return &Client{db: db, repos: repos}
}

// Open connects to the database, applies migrations and returns a ready
// client. Every failure is reported as a client initialisation error.
func Open(ctx context.Context, dialect dbx.Dialect, dsn string) (*Client, error) {
	if dialect == dbx.SQLite {
		if path, ok := filex.SQLitePath(dsn); ok {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, common.ClientInit(err)
			}
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, common.ClientInit(fmt.Errorf("open %s: %w", dialect, err))
	}

	if dialect == dbx.SQLite {
		// One writer at a time; the driver serialises the rest.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.ClientInit(fmt.Errorf("ping %s: %w", dialect, err))
	}

	repos := repomanager.NewSQLRepositoryManager(dialect)
	if err := repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, common.ClientInit(fmt.Errorf("migrate: %w", err))
	}

	return NewClient(db, repos), nil
}

// DB is the pooled handle for statements outside a transaction.
func (c *Client) DB() dbx.DBTX { return c.db }

func (c *Client) Users(db dbx.DBTX) users.Repository { return c.repos.Users(db) }

func (c *Client) Snippets(db dbx.DBTX) snippets.Repository { return c.repos.Snippets(db) }

func (c *Client) SnippetStates(db dbx.DBTX) snippetstates.Repository {
	return c.repos.SnippetStates(db)
}

func (c *Client) Tags(db dbx.DBTX) tags.Repository { return c.repos.Tags(db) }

// WithTx runs fn in a transaction. fn must only use tx: on SQLite the pool
// has a single connection and reaching for DB() inside fn deadlocks.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	err := dbx.WithTx(ctx, c.db, nil, fn)

	var classified *common.Error
	if err != nil && !errors.As(err, &classified) {
		return common.Query(fmt.Errorf("transaction: %w", err))
	}
	return err
}

func (c *Client) close() error {
	return c.db.Close()
}
