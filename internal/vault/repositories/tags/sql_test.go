package tags

import (
	"context"
	"testing"
	"time"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/dbx"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTag(name string) *models.Tag {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Tag{Name: name, Color: "#ff8800", CreatedAt: now, UpdatedAt: now}
}

func TestSQLite_TagLifecycle(t *testing.T) {
	ctx := context.Background()
	db := repotest.OpenSQLite(t)
	repo := NewSQLRepository(db, dbx.SQLite)

	tag, err := repo.Create(ctx, newTag("go"))
	require.NoError(t, err)
	assert.Empty(t, tag.SnippetIDs)

	_, err = db.Exec(`INSERT INTO snippet_states (id) VALUES ('st-1')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO snippets (id, title, language, code, snippet_state_id, created_at, updated_at)
		VALUES ('sn-1', 't', 'go', 'c', 'st-1', '2024-05-01 00:00:00', '2024-05-01 00:00:00')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO snippet_tags (snippet_id, tag_id) VALUES ('sn-1', ?)`, tag.ID)
	require.NoError(t, err)

	got, err := repo.FindUnique(ctx, tag.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"sn-1"}, got.SnippetIDs)

	renamed, err := repo.Update(ctx, tag.ID, []query.Set{query.Assign(FieldName, "golang")})
	require.NoError(t, err)
	assert.Equal(t, "golang", renamed.Name)

	found, err := repo.FindMany(ctx, []query.Clause{query.Contains(FieldName, "LANG")})
	require.NoError(t, err)
	require.Len(t, found, 1)

	deleted, err := repo.Delete(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"sn-1"}, deleted.SnippetIDs)

	var links int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snippet_tags`).Scan(&links))
	assert.Zero(t, links)

	_, err = repo.Delete(ctx, tag.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRepository(repotest.OpenSQLite(t), dbx.SQLite)

	_, err := repo.Create(ctx, newTag("go"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTag("go"))
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "Validation failed: tag name is already taken", common.Render(err))
}
