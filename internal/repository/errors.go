package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrNotOwner       = errors.New("record belongs to another user")
	ErrConflict       = errors.New("record changed concurrently")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidBarber  = errors.New("barber does not work at this barbershop")
	ErrInvalidService = errors.New("service does not belong to this barbershop")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	if isPgCode(err, pgUniqueViolation) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// modernc sqlite errors are not translated by the gorm driver.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if isPgCode(err, pgForeignKeyViolation) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
