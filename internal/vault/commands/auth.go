package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sabry-awad97/snippet-vault/internal/common"
	"github.com/sabry-awad97/snippet-vault/internal/vault/auth"
	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
)

// UserForm is the payload of register and create_user.
type UserForm struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshParams struct {
	Token string `json:"token" validate:"required"`
}

type GreetParams struct {
	Name string `json:"name"`
}

// AuthPayload answers a successful register, login or refresh.
type AuthPayload struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

func (d *Dispatcher) Greet(ctx context.Context, p GreetParams) ipc.Response[string] {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "stranger"
	}
	return ipc.Ok(fmt.Sprintf("Hello, %s! Welcome to your snippet vault.", name))
}

func (d *Dispatcher) Register(ctx context.Context, p ipc.PostParams[UserForm]) ipc.Response[AuthPayload] {
	return Dispatch(ctx, d, "register", p, func(ctx context.Context, c *state.Client, p ipc.PostParams[UserForm]) (AuthPayload, error) {
		user, err := d.createUser(ctx, c, p.Data)
		if err != nil {
			return AuthPayload{}, err
		}
		return d.authPayload(user)
	})
}

// Login answers a missing account and a wrong password identically.
func (d *Dispatcher) Login(ctx context.Context, p ipc.PostParams[Credentials]) ipc.Response[AuthPayload] {
	return Dispatch(ctx, d, "login", p, func(ctx context.Context, c *state.Client, p ipc.PostParams[Credentials]) (AuthPayload, error) {
		user, err := c.Users(c.DB()).FindByEmail(ctx, normalizeEmail(p.Data.Email))
		if err != nil {
			return AuthPayload{}, err
		}
		if user == nil {
			auth.BurnPasswordCheck(p.Data.Password, d.bcryptCost)
			return AuthPayload{}, common.Credential()
		}
		if !auth.CheckPassword(user.PasswordHash, p.Data.Password) {
			return AuthPayload{}, common.Credential()
		}
		return d.authPayload(user)
	})
}

// RefreshToken trades a valid refresh token for a new pair. Access tokens are
// refused.
func (d *Dispatcher) RefreshToken(ctx context.Context, p RefreshParams) ipc.Response[AuthPayload] {
	return Dispatch(ctx, d, "refresh_token", p, func(ctx context.Context, c *state.Client, p RefreshParams) (AuthPayload, error) {
		claim, err := d.tokens.VerifyClass(p.Token, auth.Refresh)
		if err != nil {
			return AuthPayload{}, err
		}

		user, err := c.Users(c.DB()).FindByEmail(ctx, claim.Subject)
		if err != nil {
			return AuthPayload{}, err
		}
		if user == nil {
			return AuthPayload{}, common.InvalidToken(errors.New("token subject no longer exists"))
		}
		return d.authPayload(user)
	})
}

func (d *Dispatcher) authPayload(user *models.User) (AuthPayload, error) {
	pair, err := d.tokens.IssuePair(user.Email)
	if err != nil {
		return AuthPayload{}, err
	}
	u := *user
	u.PasswordHash = ""
	return AuthPayload{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, User: u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
