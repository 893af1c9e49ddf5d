package postgres

import (
	"errors"
	"fmt"

	"github.com/charmidable/parkingsystem/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// storageErr tags a driver failure with the storage-unavailable kind
// while keeping the pgx error chain inspectable.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStorageUnavailable, err))
}
