package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrDuplicateTransaction indicates that the transaction id has already been used.
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	// ErrInvalidAmount indicates a negative or unparseable amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidDispute indicates a dispute against an unknown, foreign or already disputed transaction.
	ErrInvalidDispute = errors.New("invalid dispute")
	// ErrInvalidResolve indicates a resolve against a transaction that is not under dispute.
	ErrInvalidResolve = errors.New("invalid resolve")
	// ErrInvalidChargeback indicates a chargeback against a transaction that can not be charged back.
	ErrInvalidChargeback = errors.New("invalid chargeback")
)

// TransactionKind discriminates the two fund-moving transaction types.
type TransactionKind string

// The transaction kinds that create ledger entries.
const (
	Deposit    TransactionKind = "deposit"
	Withdrawal TransactionKind = "withdrawal"
)

// TransactionStatus captures where a transaction is in the dispute lifecycle.
type TransactionStatus int32

// Transaction statuses. A resolved dispute returns the transaction to
// StatusNormal; StatusChargedBack is terminal.
const (
	StatusNormal TransactionStatus = iota
	StatusDisputed
	StatusChargedBack
)

// String implements fmt.Stringer.
func (s TransactionStatus) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusDisputed:
		return "disputed"
	case StatusChargedBack:
		return "charged back"
	}

	return "unknown"
}

// Transaction holds a recorded deposit or withdrawal together with its dispute state.
//
// Amount is fixed at creation time; disputes, resolves and chargebacks always
// operate on the recorded amount, never on values supplied later.
type Transaction struct {
	ID       uint32            `json:"tx"`
	ClientID uint16            `json:"client"`
	Kind     TransactionKind   `json:"kind"`
	Amount   decimal.Decimal   `json:"amount"`
	Status   TransactionStatus `json:"status"`
}
