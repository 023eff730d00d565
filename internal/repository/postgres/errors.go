package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError reports a unique index violation, e.g. a sibling folder name clash
func IsPgDuplicateError(err error) bool { return pgCode(err) == codeUniqueViolation }

// IsPgForeignKeyError reports a missing referenced row, e.g. an item whose folder was deleted
func IsPgForeignKeyError(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// IsPgNoRowsError reports an empty single-row query
func IsPgNoRowsError(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

// validID reports whether id can be compared against a uuid column. Malformed ids
// would otherwise fail with 22P02 instead of matching nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
