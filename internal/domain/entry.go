package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates a non-positive or malformed amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSelfTransfer indicates a transfer where sender and receiver are the same account.
	ErrSelfTransfer = errors.New("sender and receiver accounts must differ")
)

// EntryType is the kind of ledger event an Entry records.
type EntryType string

// Entry types for every balance-changing operation.
const (
	EntryAccountOpened    EntryType = "account_opened"
	EntryDeposit          EntryType = "deposit"
	EntryWithdrawal       EntryType = "withdrawal"
	EntryTransferSent     EntryType = "transfer_sent"
	EntryTransferReceived EntryType = "transfer_received"
)

// Entry is an immutable record of one ledger-affecting event.
//
// AccountNumber is a back-reference only; the account owns its entries.
// Entries are appended once and never mutated or removed.
type Entry struct {
	TransactionID int64     `json:"transaction_id"`
	AccountNumber int64     `json:"account_number"`
	Type          EntryType `json:"type"`
	Amount        string    `json:"amount"` // always positive
	CreatedAt     time.Time `json:"created_at"`
}

// TransferResult is the result of the transfer transaction.
type TransferResult struct {
	FromAccount Account `json:"from_account"`
	ToAccount   Account `json:"to_account"`
	FromEntry   Entry   `json:"from_entry"`
	ToEntry     Entry   `json:"to_entry"`
}
