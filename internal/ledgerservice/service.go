// Package ledgerservice manages business logic layer of the ledger.
package ledgerservice

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Tanishq-btech-cse/bank-ledger/internal/domain"
	"github.com/Tanishq-btech-cse/bank-ledger/pkg/errorspkg"
)

// Allocator draws candidate account numbers and transaction ids. Draws are
// not unique by construction; the service verifies them against the store
// and redraws on collision.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Allocator interface {
	AccountNumber() int64
	TransactionID() int64
}

// maxAllocAttempts bounds identifier redraws before giving up with
// domain.ErrResourceExhausted.
const maxAllocAttempts = 5

// Service facilitates ledger service layer logic.
type Service struct {
	store domain.Store
	alloc Allocator
}

// New returns a ledger service backed by the given store and allocator.
func New(store domain.Store, alloc Allocator) *Service {
	return &Service{
		store: store,
		alloc: alloc,
	}
}

// Login returns the account whose stored username and password both match.
func (s *Service) Login(ctx context.Context, username, password string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.store.GetByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			l.Info().Str("username", username).Msg("login failed")
			return domain.Account{}, domain.ErrAuthenticationFailed
		}

		l.Error().Err(err).Send()

		return domain.Account{}, errorspkg.ErrInternal
	}

	return account, nil
}

// Open validates the input, allocates a verified-free account number and
// persists the new account together with its account_opened entry.
func (s *Service) Open(ctx context.Context, holderName, initialBalance, username, password, pin string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	balance, err := decimal.NewFromString(initialBalance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if balance.IsNegative() {
		return domain.Account{}, domain.ErrNegativeBalance
	}

	if !validPIN(pin) {
		return domain.Account{}, domain.ErrInvalidPIN
	}

	for attempt := 0; attempt < maxAllocAttempts; attempt++ {
		accountNumber := s.alloc.AccountNumber()

		exists, err := s.store.AccountNumberExists(ctx, accountNumber)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Account{}, errorspkg.ErrInternal
		}

		if exists {
			continue
		}

		account := domain.Account{
			AccountNumber:  accountNumber,
			HolderName:     holderName,
			Username:       username,
			Password:       password,
			TransactionPIN: pin,
			Balance:        balance.String(),
			CreatedAt:      time.Now().UTC(),
		}

		err = s.store.WithAccountLock(ctx, []int64{accountNumber}, func(tx domain.StoreTx) error {
			saved, err := tx.Save(ctx, account)
			if err != nil {
				return err
			}

			account = saved

			_, err = tx.AppendEntry(ctx, domain.Entry{
				TransactionID: s.alloc.TransactionID(),
				AccountNumber: accountNumber,
				Type:          domain.EntryAccountOpened,
				Amount:        balance.String(),
				CreatedAt:     account.CreatedAt,
			})

			return err
		})

		switch {
		case err == nil:
			return account, nil
		case errors.Is(err, domain.ErrIdentifierCollision):
			continue
		case errors.Is(err, domain.ErrUsernameAlreadyExists),
			errors.Is(err, domain.ErrBusy):
			return domain.Account{}, err
		default:
			l.Error().Err(err).Send()
			return domain.Account{}, errorspkg.ErrInternal
		}
	}

	return domain.Account{}, domain.ErrResourceExhausted
}

// Deposit adds the amount to the account balance and appends a deposit entry.
func (s *Service) Deposit(ctx context.Context, accountNumber int64, amount string) (domain.Account, error) {
	amt, err := positiveAmount(ctx, amount)
	if err != nil {
		return domain.Account{}, err
	}

	var updated domain.Account

	err = s.withAllocRetry(ctx, []int64{accountNumber}, func(tx domain.StoreTx) error {
		account, err := tx.Get(ctx, accountNumber)
		if err != nil {
			return err
		}

		balance, err := decimal.NewFromString(account.Balance)
		if err != nil {
			return err
		}

		account.Balance = balance.Add(amt).String()

		updated, err = tx.Save(ctx, account)
		if err != nil {
			return err
		}

		_, err = tx.AppendEntry(ctx, domain.Entry{
			TransactionID: s.alloc.TransactionID(),
			AccountNumber: accountNumber,
			Type:          domain.EntryDeposit,
			Amount:        amt.String(),
			CreatedAt:     time.Now().UTC(),
		})

		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	return updated, nil
}

// Withdraw subtracts the amount from the account balance and appends a
// withdrawal entry. The balance never goes negative.
func (s *Service) Withdraw(ctx context.Context, accountNumber int64, amount string) (domain.Account, error) {
	amt, err := positiveAmount(ctx, amount)
	if err != nil {
		return domain.Account{}, err
	}

	var updated domain.Account

	err = s.withAllocRetry(ctx, []int64{accountNumber}, func(tx domain.StoreTx) error {
		account, err := tx.Get(ctx, accountNumber)
		if err != nil {
			return err
		}

		balance, err := decimal.NewFromString(account.Balance)
		if err != nil {
			return err
		}

		if balance.LessThan(amt) {
			return domain.ErrInsufficientBalance
		}

		account.Balance = balance.Sub(amt).String()

		updated, err = tx.Save(ctx, account)
		if err != nil {
			return err
		}

		_, err = tx.AppendEntry(ctx, domain.Entry{
			TransactionID: s.alloc.TransactionID(),
			AccountNumber: accountNumber,
			Type:          domain.EntryWithdrawal,
			Amount:        amt.String(),
			CreatedAt:     time.Now().UTC(),
		})

		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	return updated, nil
}

// Transfer moves the amount between two accounts inside one lock scope
// spanning both. The debit, the credit and both entries commit together or
// not at all.
func (s *Service) Transfer(ctx context.Context, fromNumber, toNumber int64, amount string) (domain.TransferResult, error) {
	amt, err := positiveAmount(ctx, amount)
	if err != nil {
		return domain.TransferResult{}, err
	}

	if fromNumber == toNumber {
		return domain.TransferResult{}, domain.ErrSelfTransfer
	}

	var result domain.TransferResult

	err = s.withAllocRetry(ctx, []int64{fromNumber, toNumber}, func(tx domain.StoreTx) error {
		receiver, err := tx.Get(ctx, toNumber)
		if err != nil {
			return err
		}

		sender, err := tx.Get(ctx, fromNumber)
		if err != nil {
			return err
		}

		senderBalance, err := decimal.NewFromString(sender.Balance)
		if err != nil {
			return err
		}

		if senderBalance.LessThan(amt) {
			return domain.ErrInsufficientBalance
		}

		receiverBalance, err := decimal.NewFromString(receiver.Balance)
		if err != nil {
			return err
		}

		sender.Balance = senderBalance.Sub(amt).String()
		receiver.Balance = receiverBalance.Add(amt).String()

		result.FromAccount, err = tx.Save(ctx, sender)
		if err != nil {
			return err
		}

		result.ToAccount, err = tx.Save(ctx, receiver)
		if err != nil {
			return err
		}

		// Both entries carry the same timestamp; they record one event.
		now := time.Now().UTC()

		result.FromEntry, err = tx.AppendEntry(ctx, domain.Entry{
			TransactionID: s.alloc.TransactionID(),
			AccountNumber: fromNumber,
			Type:          domain.EntryTransferSent,
			Amount:        amt.String(),
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		result.ToEntry, err = tx.AppendEntry(ctx, domain.Entry{
			TransactionID: s.alloc.TransactionID(),
			AccountNumber: toNumber,
			Type:          domain.EntryTransferReceived,
			Amount:        amt.String(),
			CreatedAt:     now,
		})

		return err
	})
	if err != nil {
		return domain.TransferResult{}, err
	}

	return result, nil
}

// Get returns the account with the given number.
func (s *Service) Get(ctx context.Context, accountNumber int64) (domain.Account, error) {
	account, err := s.store.Get(ctx, accountNumber)
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// GetBalance returns the current account balance.
func (s *Service) GetBalance(ctx context.Context, accountNumber int64) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	account, err := s.store.Get(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, err
	}

	balance, err := decimal.NewFromString(account.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		return decimal.Zero, errorspkg.ErrInternal
	}

	return balance, nil
}

// ListHistory returns all entries for the account, newest first.
func (s *Service) ListHistory(ctx context.Context, accountNumber int64) ([]domain.Entry, error) {
	entries, err := s.store.ListEntries(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// VerifyPIN checks the transaction pin for the given account.
func (s *Service) VerifyPIN(ctx context.Context, accountNumber int64, pin string) error {
	account, err := s.store.Get(ctx, accountNumber)
	if err != nil {
		return err
	}

	if account.TransactionPIN != pin {
		return domain.ErrWrongPIN
	}

	return nil
}

// withAllocRetry runs the scoped mutation, redrawing identifiers by re-running
// fn whenever the store reports a collision, up to maxAllocAttempts times.
func (s *Service) withAllocRetry(ctx context.Context, accountNumbers []int64, fn func(domain.StoreTx) error) error {
	l := zerolog.Ctx(ctx)

	for attempt := 0; attempt < maxAllocAttempts; attempt++ {
		err := s.store.WithAccountLock(ctx, accountNumbers, fn)
		if errors.Is(err, domain.ErrIdentifierCollision) {
			l.Warn().Int("attempt", attempt+1).Msg("transaction id collision, redrawing")
			continue
		}

		return err
	}

	return domain.ErrResourceExhausted
}

func positiveAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Zero, domain.ErrInvalidAmount
	}

	if amt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	return amt, nil
}

func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}

	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
