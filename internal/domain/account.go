// Package domain provides defenitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountLocked indicates that the account is locked and rejects deposits and withdrawals.
	ErrAccountLocked = errors.New("account locked")
	// ErrInsufficientFunds indicates that the operation would drive available funds negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account holds per-client balance data.
//
// Total is never stored; it is always derived from Available and Held so that
// the two can not drift apart.
type Account struct {
	ClientID  uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Locked    bool            `json:"locked"`
}

// NewAccount returns a zeroed account for the given client.
func NewAccount(clientID uint16) Account {
	return Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns the total funds of the account, the sum of Available and Held.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}
