package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookmarkd/internal/domain"
)

// SQLSTATE codes raised by the bookmarkd schema
const (
	codeUniqueViolation     = "23505" // users.username, memberships (user_id, collection_id)
	codeForeignKeyViolation = "23503" // owner, parent, member and link references
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// missingReference turns a foreign key violation on insert into ErrNotFound,
// naming the violated constraint. Other errors are wrapped as is.
func missingReference(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		return fmt.Errorf("%s: %s references a row that %w", op, pgErr.ConstraintName, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
