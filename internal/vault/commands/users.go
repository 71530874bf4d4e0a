package commands

import (
	"context"

	"github.com/sabry-awad97/snippet-vault/internal/vault/ipc"
	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
	"github.com/sabry-awad97/snippet-vault/internal/vault/repositories/users"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
)

// UserPatch updates only the fields that are present.
type UserPatch struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1,max=72"`
}

func (d *Dispatcher) CreateUser(ctx context.Context, p ipc.PostParams[UserForm]) ipc.Response[*models.User] {
	return Dispatch(ctx, d, "create_user", p, func(ctx context.Context, c *state.Client, p ipc.PostParams[UserForm]) (*models.User, error) {
		return d.createUser(ctx, c, p.Data)
	})
}

// GetUser answers null data when the user does not exist.
func (d *Dispatcher) GetUser(ctx context.Context, p ipc.GetParams) ipc.Response[*models.User] {
	return Dispatch(ctx, d, "get_user", p, func(ctx context.Context, c *state.Client, p ipc.GetParams) (*models.User, error) {
		return c.Users(c.DB()).FindUnique(ctx, p.ID)
	})
}

func (d *Dispatcher) ListUsers(ctx context.Context, p ipc.ListParams[UserFilter]) ipc.Response[[]models.User] {
	return Dispatch(ctx, d, "list_users", p, func(ctx context.Context, c *state.Client, p ipc.ListParams[UserFilter]) ([]models.User, error) {
		opts := append([]query.Option{query.OrderByDesc(users.FieldCreatedAt)}, paging(p.Page, p.PageSize)...)
		return c.Users(c.DB()).FindMany(ctx, p.Filter.clauses(), opts...)
	})
}

func (d *Dispatcher) UpdateUser(ctx context.Context, p ipc.PutParams[UserPatch]) ipc.Response[*models.User] {
	return Dispatch(ctx, d, "update_user", p, func(ctx context.Context, c *state.Client, p ipc.PutParams[UserPatch]) (*models.User, error) {
		sets := []query.Set{query.Assign(users.FieldUpdatedAt, d.timestamp())}
		if p.Data.Name != nil {
			sets = append(sets, query.Assign(users.FieldName, *p.Data.Name))
		}
		if p.Data.Email != nil {
			sets = append(sets, query.Assign(users.FieldEmail, normalizeEmail(*p.Data.Email)))
		}
		if p.Data.Password != nil {
			hash, err := d.hashPassword(*p.Data.Password)
			if err != nil {
				return nil, err
			}
			sets = append(sets, query.Assign(users.FieldPasswordHash, hash))
		}
		return c.Users(c.DB()).Update(ctx, p.ID, sets)
	})
}

func (d *Dispatcher) DeleteUser(ctx context.Context, p ipc.DeleteParams) ipc.Response[*models.User] {
	return Dispatch(ctx, d, "delete_user", p, func(ctx context.Context, c *state.Client, p ipc.DeleteParams) (*models.User, error) {
		return c.Users(c.DB()).Delete(ctx, p.ID)
	})
}

func (d *Dispatcher) createUser(ctx context.Context, c *state.Client, form UserForm) (*models.User, error) {
	hash, err := d.hashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	now := d.timestamp()
	return c.Users(c.DB()).Create(ctx, &models.User{
		Name:         form.Name,
		Email:        normalizeEmail(form.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
