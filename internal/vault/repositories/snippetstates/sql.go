package snippetstates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, state *models.SnippetState) (*models.SnippetState, error) {
	if state.ID == "" {
		state.ID = uuid.NewString()
	}

	q := r.dialect.Rebind(`INSERT INTO snippet_states (id, is_dark, is_favorite) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, q, state.ID, state.IsDark, state.IsFavorite); err != nil {
		return nil, convert(err)
	}

	return state, nil
}

func (r *SQLRepository) FindUnique(ctx context.Context, id string) (*models.SnippetState, error) {
	q := r.dialect.Rebind(`SELECT id, is_dark, is_favorite FROM snippet_states WHERE id = ?`)

	state := &models.SnippetState{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&state.ID, &state.IsDark, &state.IsFavorite)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, convert(err)
	}

	return state, nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, sets []query.Set) (*models.SnippetState, error) {
	if len(sets) > 0 {
		assign, args, err := query.Assignments(Schema, sets)
		if err != nil {
			return nil, common.Query(err)
		}

		res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE snippet_states SET `+assign+` WHERE id = ?`), append(args, id)...)
		if err != nil {
			return nil, convert(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, convert(err)
		} else if n == 0 {
			return nil, common.NotFound("Snippet state")
		}
	}

	state, err := r.FindUnique(ctx, id)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, common.NotFound("Snippet state")
	}
	return state, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM snippet_states WHERE id = ?`), id)
	if err != nil {
		return convert(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return convert(err)
	} else if n == 0 {
		return common.NotFound("Snippet state")
	}
	return nil
}

func convert(err error) error {
	return common.Query(fmt.Errorf("db error: %w", err))
}
