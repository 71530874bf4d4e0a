// Package repomanager vends repositories bound to a database handle or a
// transaction, and runs the schema migrations through goose.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippets"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/snippetstates"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/tags"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Snippets(db dbx.DBTX) snippets.Repository
	SnippetStates(db dbx.DBTX) snippetstates.Repository
	Tags(db dbx.DBTX) tags.Repository
}
