package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"venuebooking/internal/domain"
)

// ErrDuplicateCode means the generated reservation code is already taken;
// the caller should retry with a fresh code.
var ErrDuplicateCode = errors.New("reservation code already exists")

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
	mysqlDuplicateEntry  = 1062
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCodeViolation(err error) bool {
	if !isUniqueViolation(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == "idx_reservations_code"
	}
	msg := err.Error()
	return strings.Contains(msg, "reservations.code") || strings.Contains(msg, "idx_reservations_code")
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}
	return false
}

// translate maps store errors onto the domain taxonomy. Domain sentinels
// raised inside a transaction pass through untouched.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, ErrDuplicateCode):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isExclusionViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case isCodeViolation(err):
		return ErrDuplicateCode
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
