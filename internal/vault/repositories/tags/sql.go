package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
)

const columns = "id, name, color, created_at, updated_at"

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	q := r.dialect.Rebind(
		`INSERT INTO tags (id, name, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`)

	if _, err := r.db.ExecContext(ctx, q, tag.ID, tag.Name, tag.Color, tag.CreatedAt, tag.UpdatedAt); err != nil {
		return nil, convert(err)
	}

	tag.SnippetIDs = []string{}
	return tag, nil
}

func (r *SQLRepository) FindUnique(ctx context.Context, id string) (*models.Tag, error) {
	found, err := r.FindMany(ctx, []query.Clause{query.Equals(FieldID, id)})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *SQLRepository) FindMany(ctx context.Context, where []query.Clause, opts ...query.Option) ([]models.Tag, error) {
	cond, args, err := query.Where(Schema, where)
	if err != nil {
		return nil, common.Query(err)
	}
	tail, err := query.Tail(Schema, query.Collect(opts...))
	if err != nil {
		return nil, common.Query(err)
	}

	result, err := r.selectTags(ctx, `SELECT `+columns+` FROM tags`+cond+tail, args)
	if err != nil {
		return nil, err
	}
	if err := r.fillSnippetIDs(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, sets []query.Set) (*models.Tag, error) {
	assign, args, err := query.Assignments(Schema, sets)
	if err != nil {
		return nil, common.Query(err)
	}

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE tags SET `+assign+` WHERE id = ?`), append(args, id)...)
	if err != nil {
		return nil, convert(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, convert(err)
	} else if n == 0 {
		return nil, common.NotFound("Tag")
	}

	return r.FindUnique(ctx, id)
}

// Delete removes the tag and its snippet links. Run it inside a transaction.
func (r *SQLRepository) Delete(ctx context.Context, id string) (*models.Tag, error) {
	tag, err := r.FindUnique(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, common.NotFound("Tag")
	}

	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM snippet_tags WHERE tag_id = ?`), id); err != nil {
		return nil, convert(err)
	}
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM tags WHERE id = ?`), id); err != nil {
		return nil, convert(err)
	}

	return tag, nil
}

func (r *SQLRepository) selectTags(ctx context.Context, q string, args []any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, convert(err)
	}
	defer rows.Close()

	result := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, convert(err)
		}
		t.SnippetIDs = []string{}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, convert(err)
	}
	return result, nil
}

// fillSnippetIDs runs after the tag rows are closed, so a single-connection
// pool never has two result sets open.
func (r *SQLRepository) fillSnippetIDs(ctx context.Context, list []models.Tag) error {
	if len(list) == 0 {
		return nil
	}

	index := make(map[string]int, len(list))
	args := make([]any, len(list))
	for i, t := range list {
		index[t.ID] = i
		args[i] = t.ID
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(list)), ", ")

	q := r.dialect.Rebind(`SELECT tag_id, snippet_id FROM snippet_tags WHERE tag_id IN (` + marks + `) ORDER BY snippet_id`)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return convert(err)
	}
	defer rows.Close()

	for rows.Next() {
		var tagID, snippetID string
		if err := rows.Scan(&tagID, &snippetID); err != nil {
			return convert(err)
		}
		i := index[tagID]
		list[i].SnippetIDs = append(list[i].SnippetIDs, snippetID)
	}
	if err := rows.Err(); err != nil {
		return convert(err)
	}
	return nil
}

func convert(err error) error {
	if dbx.IsUniqueViolation(err) {
		return common.Validation("tag name is already taken", err)
	}
	return common.Query(fmt.Errorf("db error: %w", err))
}
