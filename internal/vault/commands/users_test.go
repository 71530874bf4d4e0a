package commands

import (
	"context"
	"testing"

	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := ok(t, f.d.CreateUser(ctx, ipc.PostParams[UserForm]{Data: UserForm{Name: "Ann", Email: "Ann@X.com", Password: "pw"}}))
	assert.Equal(t, "ann@x.com", u.Email)

	got := ok(t, f.d.GetUser(ctx, ipc.GetParams{ID: u.ID}))
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, ok(t, f.d.GetUser(ctx, ipc.GetParams{ID: "nope"})))

	updated := ok(t, f.d.UpdateUser(ctx, ipc.PutParams[UserPatch]{ID: u.ID, Data: UserPatch{Name: ptr("Annie"), Password: ptr("new")}}))
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, "ann@x.com", updated.Email)

	login := ok(t, f.d.Login(ctx, ipc.PostParams[Credentials]{Data: Credentials{Email: "ann@x.com", Password: "new"}}))
	assert.Equal(t, u.ID, login.User.ID)

	register(t, f, "Bob", "bob@x.com", "pw")
	list := ok(t, f.d.ListUsers(ctx, ipc.ListParams[UserFilter]{Filter: &UserFilter{Name: ptr("ANN")}}))
	require.Len(t, list, 1)
	assert.Equal(t, u.ID, list[0].ID)

	list = ok(t, f.d.ListUsers(ctx, ipc.ListParams[UserFilter]{}))
	assert.Len(t, list, 2)

	msg := failed(t, f.d.UpdateUser(ctx, ipc.PutParams[UserPatch]{ID: u.ID, Data: UserPatch{Email: ptr("bob@x.com")}}))
	assert.Equal(t, "Validation failed: email is already registered", msg)

	deleted := ok(t, f.d.DeleteUser(ctx, ipc.DeleteParams{ID: u.ID}))
	assert.Equal(t, u.ID, deleted.ID)

	msg = failed(t, f.d.DeleteUser(ctx, ipc.DeleteParams{ID: u.ID}))
	assert.Equal(t, "User not found", msg)
}

func TestPaging(t *testing.T) {
	assert.Nil(t, paging(nil, nil))
	assert.Len(t, paging(ptr(2), nil), 1)
	assert.Len(t, paging(nil, ptr(5)), 1)
}

func TestFilterClauses_NilSafe(t *testing.T) {
	var uf *UserFilter
	var tf *TagFilter
	var sf *SnippetFilter
	assert.Empty(t, uf.clauses())
	assert.Empty(t, tf.clauses())
	assert.Empty(t, sf.clauses())
	assert.Len(t, (&SnippetFilter{Search: ptr("x"), Tags: []string{"go"}}).clauses(), 2)
}

func TestListUsers_RejectsUnreachablePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "Ann", "a@x.com", "pw")
	register(t, f, "Bob", "b@x.com", "pw")

	msg := failed(t, f.d.ListUsers(ctx, ipc.ListParams[UserFilter]{Page: ptr(4611686018427387905), PageSize: ptr(2)}))
	assert.Equal(t, "Validation failed: page must be at most 1000000", msg)

	assert.Empty(t, ok(t, f.d.ListUsers(ctx, ipc.ListParams[UserFilter]{Page: ptr(1000000), PageSize: ptr(2)})))
}
