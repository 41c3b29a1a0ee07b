package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrHasDependents is returned when a row is still referenced by a foreign key
	ErrHasDependents = errors.New("record has dependent rows")
	// ErrPermissionDenied is returned when the store rejects the write for
	// lack of privilege or a row-level security policy
	ErrPermissionDenied = errors.New("permission denied by database")
	// ErrDuplicate is returned on a unique constraint violation
	ErrDuplicate = errors.New("duplicate record")
)

// translateError maps driver specific failures onto the package sentinels.
// The driver error stays in the chain for logging.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrNotFound, ErrHasDependents, ErrPermissionDenied, ErrDuplicate} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrHasDependents, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%w: %w", ErrHasDependents, err)
		case "23505":
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case "42501":
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1451, 1452:
			return fmt.Errorf("%w: %w", ErrHasDependents, err)
		case 1062:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case 1044, 1142:
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "foreign key constraint"):
		return fmt.Errorf("%w: %w", ErrHasDependents, err)
	case strings.Contains(msg, "unique constraint"):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case strings.Contains(msg, "row-level security"), strings.Contains(msg, "permission denied"):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}
