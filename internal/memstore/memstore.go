// Package memstore provides the in-memory reference implementation of the
// ledger store. It backs the service tests and small single-node deployments
// that do not need durable storage.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Tanishq-btech-cse/bank-ledger/internal/domain"
)

// DefaultLockWait bounds how long WithAccountLock waits for one account lock.
const DefaultLockWait = 3 * time.Second

type record struct {
	lock    chan struct{} // buffered(1); full while held
	account domain.Account
	entries []domain.Entry
}

// Store keeps all accounts and entries in process memory.
type Store struct {
	mu        sync.RWMutex
	accounts  map[int64]*record
	usernames map[string]int64
	txIDs     map[int64]struct{}
	lockWait  time.Duration
}

// New returns an empty in-memory Store with the given lock wait bound.
// A non-positive wait falls back to DefaultLockWait.
func New(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}

	return &Store{
		accounts:  make(map[int64]*record),
		usernames: make(map[string]int64),
		txIDs:     make(map[int64]struct{}),
		lockWait:  lockWait,
	}
}

// recordFor returns the record for the given account number, creating an
// empty one so that not-yet-persisted accounts can still be locked.
func (s *Store) recordFor(accountNumber int64) *record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.accounts[accountNumber]
	if !ok {
		rec = &record{lock: make(chan struct{}, 1)}
		s.accounts[accountNumber] = rec
	}

	return rec
}

func (s *Store) acquire(ctx context.Context, rec *record) error {
	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case rec.lock <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrBusy
	case <-ctx.Done():
		return domain.ErrBusy
	}
}

// WithAccountLock locks the given accounts in ascending number order, runs fn
// against a transactional view and commits its staged writes only when fn
// returns nil.
func (s *Store) WithAccountLock(ctx context.Context, accountNumbers []int64, fn func(domain.StoreTx) error) error {
	ordered := dedupeAscending(accountNumbers)

	locked := make([]*record, 0, len(ordered))

	for _, n := range ordered {
		rec := s.recordFor(n)

		if err := s.acquire(ctx, rec); err != nil {
			for _, held := range locked {
				<-held.lock
			}

			return err
		}

		locked = append(locked, rec)
	}

	defer func() {
		for _, held := range locked {
			<-held.lock
		}
	}()

	tx := &storeTx{
		store:    s,
		accounts: make(map[int64]domain.Account),
		saved:    make(map[int64]bool),
	}

	if err := fn(tx); err != nil {
		return err
	}

	return s.commit(tx)
}

func (s *Store) commit(tx *storeTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check global uniqueness under the store lock: concurrent scopes on
	// disjoint accounts may have staged the same identifier or username.
	for _, e := range tx.entries {
		if _, taken := s.txIDs[e.TransactionID]; taken {
			return domain.ErrIdentifierCollision
		}
	}

	for username, n := range tx.usernames {
		if owner, taken := s.usernames[username]; taken && owner != n {
			return domain.ErrUsernameAlreadyExists
		}
	}

	for n, a := range tx.accounts {
		if !tx.saved[n] {
			continue
		}

		s.accounts[n].account = a
	}

	for username, n := range tx.usernames {
		s.usernames[username] = n
	}

	for _, e := range tx.entries {
		s.txIDs[e.TransactionID] = struct{}{}
		s.accounts[e.AccountNumber].entries = append(s.accounts[e.AccountNumber].entries, e)
	}

	return nil
}

// GetByCredentials returns the account matching both username and password.
func (s *Store) GetByCredentials(ctx context.Context, username, password string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.usernames[username]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	a := s.accounts[n].account
	if a.Password != password {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// Get returns the account with the given number.
func (s *Store) Get(ctx context.Context, accountNumber int64) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.accounts[accountNumber]
	if !ok || rec.account.AccountNumber == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return rec.account, nil
}

// AccountNumberExists reports whether an account with the given number is persisted.
func (s *Store) AccountNumberExists(ctx context.Context, accountNumber int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.accounts[accountNumber]

	return ok && rec.account.AccountNumber != 0, nil
}

// ListEntries returns the account's entries newest first.
func (s *Store) ListEntries(ctx context.Context, accountNumber int64) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.accounts[accountNumber]
	if !ok || rec.account.AccountNumber == 0 {
		return nil, domain.ErrAccountNotFound
	}

	// Entries are appended in commit order with monotonic timestamps, so the
	// reverse of insertion order is timestamp-descending.
	items := make([]domain.Entry, 0, len(rec.entries))
	for i := len(rec.entries) - 1; i >= 0; i-- {
		items = append(items, rec.entries[i])
	}

	return items, nil
}

// storeTx stages writes for one WithAccountLock scope.
type storeTx struct {
	store     *Store
	accounts  map[int64]domain.Account
	saved     map[int64]bool
	usernames map[string]int64
	entries   []domain.Entry
}

// Get returns the staged account state if present, the committed state otherwise.
func (tx *storeTx) Get(ctx context.Context, accountNumber int64) (domain.Account, error) {
	if a, ok := tx.accounts[accountNumber]; ok {
		return a, nil
	}

	a, err := tx.store.Get(ctx, accountNumber)
	if err != nil {
		return domain.Account{}, err
	}

	tx.accounts[accountNumber] = a

	return a, nil
}

// Save stages the account for commit. Creating an account whose number is
// already persisted fails with ErrIdentifierCollision; a taken username fails
// with ErrUsernameAlreadyExists.
func (tx *storeTx) Save(ctx context.Context, account domain.Account) (domain.Account, error) {
	tx.store.mu.RLock()

	if _, staged := tx.accounts[account.AccountNumber]; !staged {
		if rec, ok := tx.store.accounts[account.AccountNumber]; ok && rec.account.AccountNumber != 0 {
			tx.store.mu.RUnlock()
			return domain.Account{}, domain.ErrIdentifierCollision
		}
	}

	if owner, taken := tx.store.usernames[account.Username]; taken && owner != account.AccountNumber {
		tx.store.mu.RUnlock()
		return domain.Account{}, domain.ErrUsernameAlreadyExists
	}

	tx.store.mu.RUnlock()

	tx.accounts[account.AccountNumber] = account
	tx.saved[account.AccountNumber] = true

	if tx.usernames == nil {
		tx.usernames = make(map[string]int64)
	}

	tx.usernames[account.Username] = account.AccountNumber

	return account, nil
}

// AppendEntry stages the entry for commit. A transaction id already in use
// fails with ErrIdentifierCollision.
func (tx *storeTx) AppendEntry(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	tx.store.mu.RLock()
	_, taken := tx.store.txIDs[entry.TransactionID]
	tx.store.mu.RUnlock()

	if taken {
		return domain.Entry{}, domain.ErrIdentifierCollision
	}

	for _, staged := range tx.entries {
		if staged.TransactionID == entry.TransactionID {
			return domain.Entry{}, domain.ErrIdentifierCollision
		}
	}

	tx.entries = append(tx.entries, entry)

	return entry, nil
}

func dedupeAscending(accountNumbers []int64) []int64 {
	ordered := make([]int64, 0, len(accountNumbers))

	seen := make(map[int64]struct{}, len(accountNumbers))
	for _, n := range accountNumbers {
		if _, ok := seen[n]; ok {
			continue
		}

		seen[n] = struct{}{}
		ordered = append(ordered, n)
	}

	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	return ordered
}

var _ domain.Store = (*Store)(nil)
