// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// Errors that already are an [apperr.AppError] pass through untouched.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint violations surface as conflicts
	if IsUniqueViolation(err) {
		return apperr.Conflict("Resource already exists").WithCause(fmt.Errorf("%s: %w", action, err))
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL 23505 error.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsForeignKeyViolation reports whether err is a PostgreSQL 23503 error.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation)
}

// ConstraintName returns the violated constraint name, or "" when err is not a [pgconn.PgError].
func ConstraintName(err error) string {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.ConstraintName
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == code
}
