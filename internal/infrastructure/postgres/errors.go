package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/greekgang/terminal/internal/domain/domainerr"
)

const uniqueViolation = "23505"

// asDomain translates storage errors into the domain taxonomy. A unique
// violation is the same ValidationError a pre-insert check would have
// produced: under concurrent writers the constraint, not the check, is the
// correctness guarantee.
func asDomain(err error, duplicateMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainerr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domainerr.NewValidation(duplicateMsg)
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domainerr.ErrNotFound
	}
	return err
}

func notFoundErr() error { return domainerr.ErrNotFound }
