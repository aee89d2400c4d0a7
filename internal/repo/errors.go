package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrProdutoNotFound is returned when no produto has the requested id.
	ErrProdutoNotFound = errors.New("produto not found")
	// ErrUserNotFound is returned when no user has the requested username.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicatedValueUnique is returned when a unique column would be duplicated.
	ErrDuplicatedValueUnique = errors.New("unique constraint violation")
	// ErrUnknownField is returned for search fields the repository cannot query.
	ErrUnknownField = errors.New("unknown field")
)

const uniqueViolation = "23505"

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicatedValueUnique
	}
	return err
}
