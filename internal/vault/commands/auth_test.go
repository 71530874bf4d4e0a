package commands

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/logging"
	"github.com/sabry-awad97/snippet-vault/internal/vault/auth"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, f *fixture, name, email, password string) AuthPayload {
	t.Helper()
	return ok(t, f.d.Register(context.Background(), ipc.PostParams[UserForm]{
		Data: UserForm{Name: name, Email: email, Password: password},
	}))
}

func TestGreet(t *testing.T) {
	d := NewDispatcher(state.New(), nil, logging.Nop())
	assert.Equal(t, "Hello, Ann! Welcome to your snippet vault.", ok(t, d.Greet(context.Background(), GreetParams{Name: " Ann "})))
	assert.Equal(t, "Hello, stranger! Welcome to your snippet vault.", ok(t, d.Greet(context.Background(), GreetParams{})))
}

func TestRegisterLogin_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg := register(t, f, "Ann", "a@x.com", "pw")
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)
	assert.Equal(t, "Ann", reg.User.Name)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.NotEmpty(t, reg.User.ID)
	assert.Empty(t, reg.User.PasswordHash)

	wire, err := json.Marshal(f.router.Handle(ctx, Request{ID: "r", Command: "login",
		Params: json.RawMessage(`{"data":{"email":"a@x.com","password":"pw"}}`)}))
	require.NoError(t, err)
	assert.NotContains(t, string(wire), "passwordHash")
	assert.NotContains(t, string(wire), "$2a$")

	login := ok(t, f.d.Login(ctx, ipc.PostParams[Credentials]{Data: Credentials{Email: "A@X.com", Password: "pw"}}))
	assert.Equal(t, reg.User.ID, login.User.ID)

	claim, err := f.d.tokens.VerifyClass(login.AccessToken, auth.Access)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claim.Subject)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f, "Ann", "a@x.com", "pw")

	msg := failed(t, f.d.Register(context.Background(), ipc.PostParams[UserForm]{
		Data: UserForm{Name: "Annie", Email: "a@x.com", Password: "other"},
	}))
	assert.Equal(t, "Validation failed: email is already registered", msg)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		form UserForm
		want string
	}{
		{"missing email", UserForm{Name: "Ann", Password: "pw"}, "Validation failed: email is required"},
		{"bad email", UserForm{Name: "Ann", Email: "nope", Password: "pw"}, "Validation failed: email must be a valid email address"},
		{"short name", UserForm{Name: "A", Email: "a@x.com", Password: "pw"}, "Validation failed: name must be at least 2 characters"},
		{"missing password", UserForm{Name: "Ann", Email: "a@x.com"}, "Validation failed: password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := failed(t, f.d.Register(context.Background(), ipc.PostParams[UserForm]{Data: tt.form}))
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "Ann", "a@x.com", "pw")

	wrong := failed(t, f.d.Login(ctx, ipc.PostParams[Credentials]{Data: Credentials{Email: "a@x.com", Password: "nope"}}))
	unknown := failed(t, f.d.Login(ctx, ipc.PostParams[Credentials]{Data: Credentials{Email: "b@x.com", Password: "pw"}}))

	assert.Equal(t, common.MsgCredential, wrong)
	assert.Equal(t, wrong, unknown)
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := register(t, f, "Ann", "a@x.com", "pw")

	t.Run("refresh token is accepted", func(t *testing.T) {
		got := ok(t, f.d.RefreshToken(ctx, RefreshParams{Token: reg.RefreshToken}))
		assert.Equal(t, reg.User.ID, got.User.ID)
		assert.NotEmpty(t, got.AccessToken)
	})

	t.Run("access token is refused", func(t *testing.T) {
		msg := failed(t, f.d.RefreshToken(ctx, RefreshParams{Token: reg.AccessToken}))
		assert.Equal(t, common.MsgInvalidToken, msg)
	})

	t.Run("garbage is refused", func(t *testing.T) {
		msg := failed(t, f.d.RefreshToken(ctx, RefreshParams{Token: "not.a.jwt"}))
		assert.Equal(t, common.MsgInvalidToken, msg)
	})

	t.Run("deleted subject is refused", func(t *testing.T) {
		other := register(t, f, "Bob", "b@x.com", "pw")
		ok(t, f.d.DeleteUser(ctx, ipc.DeleteParams{ID: other.User.ID}))

		msg := failed(t, f.d.RefreshToken(ctx, RefreshParams{Token: other.RefreshToken}))
		assert.Equal(t, common.MsgInvalidToken, msg)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		f.clock.Advance(168*time.Hour + time.Second)
		msg := failed(t, f.d.RefreshToken(ctx, RefreshParams{Token: reg.RefreshToken}))
		assert.Equal(t, common.MsgTokenExpired, msg)
	})
}

func TestDispatch_Uninitialized(t *testing.T) {
	d := NewDispatcher(state.New(), nil, logging.Nop())
	msg := failed(t, d.GetUser(context.Background(), ipc.GetParams{ID: "x"}))
	assert.Equal(t, common.MsgClientInit, msg)
}
