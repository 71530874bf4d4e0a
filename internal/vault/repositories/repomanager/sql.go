package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/migrations"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippets"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippetstates"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/tags"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/users"
)

// SQLRepositoryManager builds SQL repositories for one dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func NewSQLRepositoryManager(dialect dbx.Dialect) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect { return m.dialect }

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Snippets(db dbx.DBTX) snippets.Repository {
	return snippets.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) SnippetStates(db dbx.DBTX) snippetstates.Repository {
	return snippetstates.NewSQLRepository(db, m.dialect)
}

func (m *SQLRepositoryManager) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose configuration is global.
var migrateMu sync.Mutex

// RunMigrations applies the embedded migrations.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	// stdout belongs to the bridge protocol.
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.GooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
