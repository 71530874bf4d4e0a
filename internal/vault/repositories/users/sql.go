package users

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

const columns = "id, name, email, password_hash, created_at, updated_at"

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	q := r.dialect.Rebind(
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, q,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, convert(err)
	}

	return user, nil
}

func (r *SQLRepository) FindUnique(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *SQLRepository) findOne(ctx context.Context, column string, value string) (*models.User, error) {
	q := r.dialect.Rebind(`SELECT ` + columns + ` FROM users WHERE ` + column + ` = ?`)

	user, err := scan(r.db.QueryRowContext(ctx, q, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, convert(err)
	}

	return user, nil
}

func (r *SQLRepository) FindMany(ctx context.Context, where []query.Clause, opts ...query.Option) ([]models.User, error) {
	cond, args, err := query.Where(Schema, where)
	if err != nil {
		return nil, common.Query(err)
	}
	tail, err := query.Tail(Schema, query.Collect(opts...))
	if err != nil {
		return nil, common.Query(err)
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`SELECT `+columns+` FROM users`+cond+tail), args...)
	if err != nil {
		return nil, convert(err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		user, err := scan(rows)
		if err != nil {
			return nil, convert(err)
		}
		result = append(result, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, convert(err)
	}

	return result, nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, sets []query.Set) (*models.User, error) {
	assign, args, err := query.Assignments(Schema, sets)
	if err != nil {
		return nil, common.Query(err)
	}

	q := r.dialect.Rebind(`UPDATE users SET ` + assign + ` WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		return nil, convert(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, convert(err)
	} else if n == 0 {
		return nil, common.NotFound("User")
	}

	return r.FindUnique(ctx, id)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) (*models.User, error) {
	user, err := r.FindUnique(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NotFound("User")
	}

	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM users WHERE id = ?`), id); err != nil {
		return nil, convert(err)
	}

	return user, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.User, error) {
	u := &models.User{}
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func convert(err error) error {
	if dbx.IsUniqueViolation(err) {
		return common.Validation("email is already registered", err)
	}
	return common.Query(fmt.Errorf("db error: %w", err))
}
