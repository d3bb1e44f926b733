package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnknownTransactionKind indicates a record whose type field is not recognized.
var ErrUnknownTransactionKind = errors.New("unknown transaction kind")

// EventKind discriminates the record types accepted by the ledger engine.
type EventKind string

// The record types of the input stream.
const (
	EventDeposit    EventKind = "deposit"
	EventWithdrawal EventKind = "withdrawal"
	EventDispute    EventKind = "dispute"
	EventResolve    EventKind = "resolve"
	EventChargeback EventKind = "chargeback"
)

// Event is one input record addressed to the ledger engine.
//
// Amount is meaningful only for deposit and withdrawal events and ignored for
// the dispute lifecycle events.
type Event struct {
	Kind     EventKind       `json:"type"`
	ClientID uint16          `json:"client"`
	TxID     uint32          `json:"tx"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewDeposit returns a deposit event.
func NewDeposit(clientID uint16, txID uint32, amount decimal.Decimal) Event {
	return Event{Kind: EventDeposit, ClientID: clientID, TxID: txID, Amount: amount}
}

// NewWithdrawal returns a withdrawal event.
func NewWithdrawal(clientID uint16, txID uint32, amount decimal.Decimal) Event {
	return Event{Kind: EventWithdrawal, ClientID: clientID, TxID: txID, Amount: amount}
}

// NewDispute returns a dispute event.
func NewDispute(clientID uint16, txID uint32) Event {
	return Event{Kind: EventDispute, ClientID: clientID, TxID: txID}
}

// NewResolve returns a resolve event.
func NewResolve(clientID uint16, txID uint32) Event {
	return Event{Kind: EventResolve, ClientID: clientID, TxID: txID}
}

// NewChargeback returns a chargeback event.
func NewChargeback(clientID uint16, txID uint32) Event {
	return Event{Kind: EventChargeback, ClientID: clientID, TxID: txID}
}
