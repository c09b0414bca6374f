package pgdb

import (
	"database/sql"

	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeLockNotAvailable    = "55P03"
	codeQueryCanceled       = "57014"
	codeDeadlockDetected    = "40P01"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return repo_errors.ErrNotFound
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case codeUniqueViolation:
		return errors.Wrap(repo_errors.ErrDuplicate, pqErr.Constraint)
	case codeForeignKeyViolation:
		return errors.Wrap(repo_errors.ErrNotFound, pqErr.Constraint)
	case codeLockNotAvailable, codeQueryCanceled, codeDeadlockDetected:
		return errors.Wrap(repo_errors.ErrLockTimeout, pqErr.Message)
	}

	return err
}

// rollback aborts tx and returns cause. A transaction database/sql already closed (for
// example on context cancellation) is not an error; any other rollback failure is attached.
func rollback(tx *sql.Tx, cause error) error {
	if e := tx.Rollback(); e != nil && !errors.Is(e, sql.ErrTxDone) {
		return errors.Wrapf(cause, "rollback failed: %v", e)
	}

	return cause
}
