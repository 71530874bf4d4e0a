package snippets

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
)

const columns = "id, title, description, language, code, snippet_state_id, created_at, updated_at"

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Create inserts the snippet row and its tag links. The referenced state
// must already exist.
func (r *SQLRepository) Create(ctx context.Context, s *models.Snippet) (*models.Snippet, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	q := r.dialect.Rebind(
		`INSERT INTO snippets (id, title, description, language, code, snippet_state_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.Title, s.Description, s.Language, s.Code, s.SnippetStateID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, convert(err)
	}

	if err := r.SetTags(ctx, s.ID, s.TagIDs); err != nil {
		return nil, err
	}
	s.TagIDs = dedupe(s.TagIDs)
	return s, nil
}

func (r *SQLRepository) FindUnique(ctx context.Context, id string) (*models.Snippet, error) {
	found, err := r.FindMany(ctx, []query.Clause{query.Equals(FieldID, id)})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *SQLRepository) FindMany(ctx context.Context, where []query.Clause, opts ...query.Option) ([]models.Snippet, error) {
	cond, args, err := query.Where(Schema, where)
	if err != nil {
		return nil, common.Query(err)
	}
	tail, err := query.Tail(Schema, query.Collect(opts...))
	if err != nil {
		return nil, common.Query(err)
	}

	result, err := r.selectSnippets(ctx, `SELECT `+columns+` FROM snippets`+cond+tail, args)
	if err != nil {
		return nil, err
	}
	if err := r.fillTagIDs(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, sets []query.Set) (*models.Snippet, error) {
	assign, args, err := query.Assignments(Schema, sets)
	if err != nil {
		return nil, common.Query(err)
	}

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE snippets SET `+assign+` WHERE id = ?`), append(args, id)...)
	if err != nil {
		return nil, convert(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, convert(err)
	} else if n == 0 {
		return nil, common.NotFound("Snippet")
	}

	return r.FindUnique(ctx, id)
}

// Delete removes the snippet and its tag links. The state row is left to the
// caller. Run it inside a transaction.
func (r *SQLRepository) Delete(ctx context.Context, id string) (*models.Snippet, error) {
	s, err := r.FindUnique(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, common.NotFound("Snippet")
	}

	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM snippet_tags WHERE snippet_id = ?`), id); err != nil {
		return nil, convert(err)
	}
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM snippets WHERE id = ?`), id); err != nil {
		return nil, convert(err)
	}

	return s, nil
}

func (r *SQLRepository) SetTags(ctx context.Context, id string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM snippet_tags WHERE snippet_id = ?`), id); err != nil {
		return convert(err)
	}

	q := r.dialect.Rebind(`INSERT INTO snippet_tags (snippet_id, tag_id) VALUES (?, ?)`)
	for _, tagID := range dedupe(tagIDs) {
		if _, err := r.db.ExecContext(ctx, q, id, tagID); err != nil {
			return convert(err)
		}
	}
	return nil
}

func (r *SQLRepository) selectSnippets(ctx context.Context, q string, args []any) ([]models.Snippet, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(q), args...)
	if err != nil {
		return nil, convert(err)
	}
	defer rows.Close()

	result := make([]models.Snippet, 0)
	for rows.Next() {
		var s models.Snippet
		err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Language, &s.Code,
			&s.SnippetStateID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, convert(err)
		}
		s.TagIDs = []string{}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, convert(err)
	}
	return result, nil
}

func (r *SQLRepository) fillTagIDs(ctx context.Context, list []models.Snippet) error {
	if len(list) == 0 {
		return nil
	}

	index := make(map[string]int, len(list))
	args := make([]any, len(list))
	for i, s := range list {
		index[s.ID] = i
		args[i] = s.ID
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(list)), ", ")

	q := r.dialect.Rebind(`SELECT snippet_id, tag_id FROM snippet_tags WHERE snippet_id IN (` + marks + `) ORDER BY tag_id`)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return convert(err)
	}
	defer rows.Close()

	for rows.Next() {
		var snippetID, tagID string
		if err := rows.Scan(&snippetID, &tagID); err != nil {
			return convert(err)
		}
		i := index[snippetID]
		list[i].TagIDs = append(list[i].TagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return convert(err)
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func convert(err error) error {
	return common.Query(fmt.Errorf("db error: %w", err))
}
