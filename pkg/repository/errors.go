package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgConnectionClass      = "08"
	pgInsufficientResource = "53"
	pgOperatorIntervention = "57"
)

// Errors names the domain errors that database failures translate to.
// A nil field leaves the matching failure untranslated.
type Errors struct {
	NotFound    error
	Duplicate   error
	Invalid     error
	Unavailable error
}

// MapError translates database errors to domain errors:
//   - sql.ErrNoRows becomes NotFound
//   - unique violation (23505) becomes Duplicate
//   - check violation (23514) becomes Invalid
//   - connection, resource and shutdown failures become Unavailable, wrapping the cause
//
// Other errors are returned unchanged.
func MapError(err error, m Errors) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && m.NotFound != nil {
		return m.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && m.Duplicate != nil:
			return m.Duplicate
		case pgErr.Code == pgCheckViolation && m.Invalid != nil:
			return fmt.Errorf("%w: %s", m.Invalid, pgErr.ConstraintName)
		}
	}

	if m.Unavailable != nil && IsUnavailable(err) {
		return fmt.Errorf("%w: %w", m.Unavailable, err)
	}

	return err
}

// IsUnavailable reports whether err indicates the database could not be
// reached or could not serve the request, as opposed to a query-level error.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgConnectionClass) ||
			strings.HasPrefix(pgErr.Code, pgInsufficientResource) ||
			strings.HasPrefix(pgErr.Code, pgOperatorIntervention)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return pgconn.Timeout(err)
}
