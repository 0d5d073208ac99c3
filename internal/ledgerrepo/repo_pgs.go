// Package ledgerrepo manages the postgres-backed ledger store.
package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/Tanishq-btech-cse/bank-ledger/internal/domain"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/dbpkg"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/errorspkg"
)

// pgLockNotAvailable is the class 55 code raised when lock_timeout expires.
const pgLockNotAvailable = "55P03"

const defaultLockTimeout = 3 * time.Second

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	conn        *sql.DB
	lockTimeout time.Duration
}

// NewRepoPGS returns a ledger RepoPGS with connection to start transactions.
func NewRepoPGS(conn *sql.DB, lockTimeout time.Duration) *RepoPGS {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}

	return &RepoPGS{
		conn:        conn,
		lockTimeout: lockTimeout,
	}
}

const lockAccountsQuery = `
SELECT account_number FROM accounts
WHERE account_number = ANY($1)
ORDER BY account_number
FOR UPDATE
`

// WithAccountLock runs fn inside a database transaction holding row locks on
// the given accounts. Rows are locked in ascending account-number order so
// that overlapping scopes cannot deadlock. A lock wait beyond the configured
// timeout surfaces as domain.ErrBusy.
func (r *RepoPGS) WithAccountLock(ctx context.Context, accountNumbers []int64, fn func(domain.StoreTx) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		_ = tx.Rollback()
	}()

	timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
	if _, err := tx.ExecContext(ctx, timeout); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if _, err := tx.ExecContext(ctx, lockAccountsQuery, pq.Array(accountNumbers)); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pgLockNotAvailable {
			return domain.ErrBusy
		}

		l.Error().Err(err).Send()

		return errorspkg.ErrInternal
	}

	if err := fn(&txPGS{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const getByCredentialsQuery = `
SELECT account_number, holder_name, username, password, transaction_pin, account_balance, created_at
FROM accounts
WHERE username = $1 AND password = $2
`

// GetByCredentials returns the account matching both username and password.
func (r *RepoPGS) GetByCredentials(ctx context.Context, username, password string) (domain.Account, error) {
	return scanAccount(ctx, r.conn.QueryRowContext(ctx, getByCredentialsQuery, username, password))
}

const getQuery = `
SELECT account_number, holder_name, username, password, transaction_pin, account_balance, created_at
FROM accounts
WHERE account_number = $1
`

// Get returns the account with the given number.
func (r *RepoPGS) Get(ctx context.Context, accountNumber int64) (domain.Account, error) {
	return scanAccount(ctx, r.conn.QueryRowContext(ctx, getQuery, accountNumber))
}

const existsQuery = `
SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)
`

// AccountNumberExists reports whether the given account number is in use.
func (r *RepoPGS) AccountNumberExists(ctx context.Context, accountNumber int64) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool
	if err := r.conn.QueryRowContext(ctx, existsQuery, accountNumber).Scan(&exists); err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

const listEntriesQuery = `
SELECT transaction_id, account_number, type, amount, created_at
FROM entries
WHERE account_number = $1
ORDER BY created_at DESC, transaction_id DESC
`

// ListEntries returns the account's entries newest first.
func (r *RepoPGS) ListEntries(ctx context.Context, accountNumber int64) ([]domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	if _, err := r.Get(ctx, accountNumber); err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, listEntriesQuery, accountNumber)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Entry{}

	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.TransactionID, &e.AccountNumber, &e.Type, &e.Amount, &e.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

// txPGS is the transactional view handed to WithAccountLock callbacks.
type txPGS struct {
	db dbpkg.SQLInterface
}

// Get returns the account as seen by the enclosing transaction.
func (t *txPGS) Get(ctx context.Context, accountNumber int64) (domain.Account, error) {
	return scanAccount(ctx, t.db.QueryRowContext(ctx, getQuery, accountNumber))
}

const updateBalanceQuery = `
UPDATE accounts
SET account_balance = $2
WHERE account_number = $1
RETURNING account_number, holder_name, username, password, transaction_pin, account_balance, created_at
`

const insertAccountQuery = `
INSERT INTO
	accounts (account_number, holder_name, username, password, transaction_pin, account_balance, created_at)
VALUES
	($1, $2, $3, $4, $5, $6, $7)
RETURNING account_number, holder_name, username, password, transaction_pin, account_balance, created_at
`

// Save updates the balance of an existing account or inserts a new one.
// Unique violations map to the collision and duplicate-username errors so
// the service can redraw or reject.
func (t *txPGS) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	updated, err := scanAccount(ctx, t.db.QueryRowContext(ctx, updateBalanceQuery, account.AccountNumber, account.Balance))
	if err == nil {
		return updated, nil
	}

	if err != domain.ErrAccountNotFound {
		return domain.Account{}, err
	}

	row := t.db.QueryRowContext(ctx, insertAccountQuery,
		account.AccountNumber,
		account.HolderName,
		account.Username,
		account.Password,
		account.TransactionPIN,
		account.Balance,
		account.CreatedAt,
	)

	created, err := scanAccount(ctx, row)
	if err != nil {
		if pqErr, ok := rawPQError(err); ok {
			switch pqErr.Constraint {
			case "accounts_pkey":
				return domain.Account{}, domain.ErrIdentifierCollision
			case "accounts_username_key":
				return domain.Account{}, domain.ErrUsernameAlreadyExists
			}
		}

		l.Error().Err(err).Send()

		return domain.Account{}, err
	}

	return created, nil
}

const insertEntryQuery = `
INSERT INTO
	entries (transaction_id, account_number, type, amount, created_at)
VALUES
	($1, $2, $3, $4, $5)
RETURNING transaction_id, account_number, type, amount, created_at
`

// AppendEntry inserts the entry; a reused transaction id maps to
// domain.ErrIdentifierCollision.
func (t *txPGS) AppendEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	row := t.db.QueryRowContext(ctx, insertEntryQuery,
		entry.TransactionID,
		entry.AccountNumber,
		entry.Type,
		entry.Amount,
		entry.CreatedAt,
	)

	var e domain.Entry

	err := row.Scan(&e.TransactionID, &e.AccountNumber, &e.Type, &e.Amount, &e.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "entries_pkey" {
			return e, domain.ErrIdentifierCollision
		}

		l.Error().Err(err).Send()

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

// scanAccount scans one account row, mapping the common scan failures.
func scanAccount(ctx context.Context, row *sql.Row) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.HolderName,
		&a.Username,
		&a.Password,
		&a.TransactionPIN,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}

			return a, err
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

func rawPQError(err error) (*pq.Error, bool) {
	pqErr, ok := err.(*pq.Error)
	return pqErr, ok
}

var _ domain.Store = (*RepoPGS)(nil)
