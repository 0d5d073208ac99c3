package domain

import (
	"context"
	"errors"
)

var (
	// ErrBusy indicates that the required account locks could not be acquired in time.
	// Safe to retry.
	ErrBusy = errors.New("ledger busy, try again")
	// ErrIdentifierCollision indicates that an allocated identifier is already in use.
	// The service re-allocates and retries; callers never see this error directly.
	ErrIdentifierCollision = errors.New("identifier already in use")
	// ErrResourceExhausted indicates that identifier allocation gave up after
	// the bounded number of attempts.
	ErrResourceExhausted = errors.New("identifier allocation attempts exhausted")
)

// StoreTx is a transactional view over the ledger. Save and AppendEntry must
// only be called inside WithAccountLock; their effects are discarded unless
// the enclosing scope commits.
type StoreTx interface {
	Get(ctx context.Context, accountNumber int64) (Account, error)
	Save(ctx context.Context, account Account) (Account, error)
	AppendEntry(ctx context.Context, entry Entry) (Entry, error)
}

// Store is the persistent collection of accounts and history entries.
//
// WithAccountLock acquires exclusive locks for the given accounts in
// ascending account-number order, runs fn against a transactional view,
// commits on nil return and rolls back otherwise. Lock acquisition is
// bounded; contention surfaces as ErrBusy. The remaining methods are pure
// reads over committed state.
type Store interface {
	WithAccountLock(ctx context.Context, accountNumbers []int64, fn func(StoreTx) error) error
	GetByCredentials(ctx context.Context, username, password string) (Account, error)
	Get(ctx context.Context, accountNumber int64) (Account, error)
	AccountNumberExists(ctx context.Context, accountNumber int64) (bool, error)
	ListEntries(ctx context.Context, accountNumber int64) ([]Entry, error)
}
