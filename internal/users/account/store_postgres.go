// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/database/schema"
	"github.com/taibuivan/inkwell/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] on top of pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new Postgres-backed [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var selectUserQuery = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.UserAccount.Columns(), ", "),
	schema.UserAccount.Table,
)

// FindByID returns the account with the given ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := selectUserQuery + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)
	return repository.findOne(context, query, id)
}

// FindByUsername returns the account with the given username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := selectUserQuery + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.Username)
	return repository.findOne(context, query, username)
}

func (repository *PostgresUserRepository) findOne(context context.Context, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.Avatar, &user.Bio, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_user")
	}
	return user, nil
}
