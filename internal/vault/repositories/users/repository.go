// Package users persists accounts.
package users

import (
	"context"

	"github.com/sabry-awad97/snippet-vault/internal/vault/models"
	"github.com/sabry-awad97/snippet-vault/internal/vault/query"
)

const (
	FieldID           query.Field = "id"
	FieldName         query.Field = "name"
	FieldEmail        query.Field = "email"
	FieldPasswordHash query.Field = "passwordHash"
	FieldCreatedAt    query.Field = "createdAt"
	FieldUpdatedAt    query.Field = "updatedAt"
)

// Schema maps user fields onto the users table.
var Schema = &query.Schema{
	Table: "users",
	Columns: map[query.Field]string{
		FieldID:           "id",
		FieldName:         "name",
		FieldEmail:        "email",
		FieldPasswordHash: "password_hash",
		FieldCreatedAt:    "created_at",
		FieldUpdatedAt:    "updated_at",
	},
}

// Repository is the persistence contract for users. FindUnique and
// FindByEmail return (nil, nil) when nothing matches; Update and Delete
// report common.ErrNotFound instead.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindUnique(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindMany(ctx context.Context, where []query.Clause, opts ...query.Option) ([]models.User, error)
	Update(ctx context.Context, id string, sets []query.Set) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
}
