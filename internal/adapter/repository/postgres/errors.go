package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/paywal/internal/domain"
)

// PostgreSQL error codes the repositories translate.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
	pgErrUniqueViolation      = "23505"
	pgErrCheckViolation       = "23514"
	pgErrQueryCanceled        = "57014"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"
	pgErrTooManyConnections   = "53300"
)

const (
	constraintAccountsOwnerUnique   = "accounts_owner_id_key"
	constraintAccountsBalanceNonNeg = "accounts_balance_non_negative"
)

// translateError maps driver errors onto domain errors. Unknown errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgErrDeadlock, pgErr.Code == pgErrSerializationFailure, pgErr.Code == pgErrLockNotAvailable:
		return fmt.Errorf("%w: %w", domain.ErrConcurrentConflict, err)
	case pgErr.Code == pgErrQueryCanceled:
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	case pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == constraintAccountsOwnerUnique:
		return domain.ErrAccountAlreadyExists
	case pgErr.Code == pgErrCheckViolation && pgErr.ConstraintName == constraintAccountsBalanceNonNeg:
		return domain.ErrNegativeBalance
	case pgErr.Code == pgErrAdminShutdown, pgErr.Code == pgErrCannotConnectNow, pgErr.Code == pgErrTooManyConnections,
		strings.HasPrefix(pgErr.Code, "08"):
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}
