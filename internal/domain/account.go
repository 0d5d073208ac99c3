// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUsernameAlreadyExists indicates that the username is already registered.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrAuthenticationFailed indicates a credential mismatch on login.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrNegativeBalance indicates an attempt to open an account with a negative balance.
	ErrNegativeBalance = errors.New("initial balance cannot be negative")
	// ErrInvalidPIN indicates a malformed transaction pin.
	ErrInvalidPIN = errors.New("pin must be exactly 4 digits")
	// ErrWrongPIN indicates that the given pin does not match the account pin.
	ErrWrongPIN = errors.New("wrong transaction pin")
	// ErrAccountOwnerMismatch indicates that the account belongs to another user.
	ErrAccountOwnerMismatch = errors.New("account owner mismatch")
)

// Account holds one customer's balance and credentials.
//
// AccountNumber is immutable once assigned: bank code prefix followed by
// an 8-digit suffix. Balance is a decimal string and never goes negative.
type Account struct {
	AccountNumber  int64     `json:"account_number"`
	HolderName     string    `json:"holder_name"`
	Username       string    `json:"username"`
	Password       string    `json:"-"`
	TransactionPIN string    `json:"-"`
	Balance        string    `json:"balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// WithoutSecrets is Account data excluding credential data.
type WithoutSecrets struct {
	AccountNumber int64     `json:"account_number"`
	HolderName    string    `json:"holder_name"`
	Username      string    `json:"username"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewWithoutSecrets returns the account with credential data removed.
func NewWithoutSecrets(a Account) WithoutSecrets {
	return WithoutSecrets{
		AccountNumber: a.AccountNumber,
		HolderName:    a.HolderName,
		Username:      a.Username,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
	}
}
