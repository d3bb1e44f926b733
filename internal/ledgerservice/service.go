// Package ledgerservice manages the business logic layer of the transaction ledger.
//
// The service replays an ordered stream of transaction events against per-client
// account state. Records are applied strictly one at a time; every precondition
// violation yields a recoverable outcome and never aborts the stream.
package ledgerservice

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/go-petr/tx-ledger/internal/accountstore"
	"github.com/go-petr/tx-ledger/internal/domain"
	"github.com/go-petr/tx-ledger/internal/txstore"
)

// DisputePolicy decides whether a dispute opened before an account was locked
// may still resolve or charge back.
type DisputePolicy int32

const (
	// PolicyResolveWhileLocked lets disputes that were opened before the lock
	// run to completion. New disputes are still rejected.
	PolicyResolveWhileLocked DisputePolicy = iota
	// PolicyFreezeAll rejects every transition on a locked account, including
	// resolves and chargebacks of earlier disputes.
	PolicyFreezeAll
)

// Option configures the service.
type Option func(*Service)

// WithDisputePolicy overrides the default PolicyResolveWhileLocked.
func WithDisputePolicy(p DisputePolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// Service owns the account store and the transaction ledger and is their only
// mutator for the process lifetime.
type Service struct {
	accounts *accountstore.Store
	txs      *txstore.Store
	policy   DisputePolicy
}

// New returns a ledger service over the given stores.
func New(accounts *accountstore.Store, txs *txstore.Store, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		txs:      txs,
		policy:   PolicyResolveWhileLocked,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Apply replays one event against the ledger.
//
// A nil return means the event took effect. A non-nil return reports why the
// event was rejected; the ledger is left exactly as it was, except that a
// rejected withdrawal still creates the referenced account with zeroed funds.
func (s *Service) Apply(ctx context.Context, event domain.Event) error {
	switch event.Kind {
	case domain.EventDeposit:
		return s.deposit(event)
	case domain.EventWithdrawal:
		return s.withdrawal(event)
	case domain.EventDispute:
		return s.dispute(event)
	case domain.EventResolve:
		return s.resolve(event)
	case domain.EventChargeback:
		return s.chargeback(event)
	}

	return domain.ErrUnknownTransactionKind
}

func (s *Service) deposit(event domain.Event) error {
	if _, err := s.txs.Get(event.TxID); err == nil {
		return domain.ErrDuplicateTransaction
	}

	if event.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}

	account := s.accounts.GetOrCreate(event.ClientID)
	if account.Locked {
		return domain.ErrAccountLocked
	}

	account.Available = account.Available.Add(event.Amount)

	if err := s.txs.Insert(domain.Transaction{
		ID:       event.TxID,
		ClientID: event.ClientID,
		Kind:     domain.Deposit,
		Amount:   event.Amount,
		Status:   domain.StatusNormal,
	}); err != nil {
		return err
	}

	s.accounts.Set(account)

	return nil
}

func (s *Service) withdrawal(event domain.Event) error {
	if _, err := s.txs.Get(event.TxID); err == nil {
		return domain.ErrDuplicateTransaction
	}

	if event.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}

	// The client becomes known even when the withdrawal is rejected.
	account := s.accounts.GetOrCreate(event.ClientID)
	s.accounts.Set(account)

	if account.Locked {
		return domain.ErrAccountLocked
	}

	if account.Available.LessThan(event.Amount) {
		return domain.ErrInsufficientFunds
	}

	account.Available = account.Available.Sub(event.Amount)

	if err := s.txs.Insert(domain.Transaction{
		ID:       event.TxID,
		ClientID: event.ClientID,
		Kind:     domain.Withdrawal,
		Amount:   event.Amount,
		Status:   domain.StatusNormal,
	}); err != nil {
		return err
	}

	s.accounts.Set(account)

	return nil
}

func (s *Service) dispute(event domain.Event) error {
	tx, err := s.txs.Get(event.TxID)
	if err != nil || tx.ClientID != event.ClientID || tx.Status != domain.StatusNormal {
		return domain.ErrInvalidDispute
	}

	account, err := s.accounts.Get(tx.ClientID)
	if err != nil {
		return domain.ErrInvalidDispute
	}

	// New disputes are rejected on locked accounts under either policy.
	if account.Locked {
		return domain.ErrAccountLocked
	}

	switch tx.Kind {
	case domain.Deposit:
		// A deposit can only be disputed while the client still holds the funds.
		if account.Available.LessThan(tx.Amount) {
			return domain.ErrInsufficientFunds
		}

		account.Available = account.Available.Sub(tx.Amount)
		account.Held = account.Held.Add(tx.Amount)
	case domain.Withdrawal:
		// The funds already left available; held reserves the departed amount
		// pending resolution.
		account.Held = account.Held.Add(tx.Amount)
	}

	tx.Status = domain.StatusDisputed

	if err := s.txs.Update(tx); err != nil {
		return err
	}

	s.accounts.Set(account)

	return nil
}

func (s *Service) resolve(event domain.Event) error {
	tx, err := s.txs.Get(event.TxID)
	if err != nil || tx.ClientID != event.ClientID || tx.Status != domain.StatusDisputed {
		return domain.ErrInvalidResolve
	}

	account, err := s.accounts.Get(tx.ClientID)
	if err != nil {
		return domain.ErrInvalidResolve
	}

	if account.Locked && s.policy == PolicyFreezeAll {
		return domain.ErrAccountLocked
	}

	// Reverses the dispute for both kinds: a disputed deposit moves its hold
	// back to available, a resolved withdrawal dispute claws the reserved
	// value back to the client.
	account.Held = account.Held.Sub(tx.Amount)
	account.Available = account.Available.Add(tx.Amount)

	tx.Status = domain.StatusNormal

	if err := s.txs.Update(tx); err != nil {
		return err
	}

	s.accounts.Set(account)

	return nil
}

func (s *Service) chargeback(event domain.Event) error {
	tx, err := s.txs.Get(event.TxID)
	if err != nil || tx.ClientID != event.ClientID || tx.Status != domain.StatusDisputed {
		return domain.ErrInvalidChargeback
	}

	// Chargebacks only occur on deposits.
	if tx.Kind != domain.Deposit {
		return domain.ErrInvalidChargeback
	}

	account, err := s.accounts.Get(tx.ClientID)
	if err != nil {
		return domain.ErrInvalidChargeback
	}

	if account.Locked && s.policy == PolicyFreezeAll {
		return domain.ErrAccountLocked
	}

	// The held funds leave the account for good and the account is frozen.
	account.Held = account.Held.Sub(tx.Amount)
	account.Locked = true

	tx.Status = domain.StatusChargedBack

	if err := s.txs.Update(tx); err != nil {
		return err
	}

	s.accounts.Set(account)

	return nil
}

// Account returns the state of a single client account.
func (s *Service) Account(ctx context.Context, clientID uint16) (domain.Account, error) {
	return s.accounts.Get(clientID)
}

// Accounts returns a snapshot of all known accounts ordered by client id.
func (s *Service) Accounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(), nil
}

// Transaction returns the recorded state of a single transaction.
func (s *Service) Transaction(ctx context.Context, txID uint32) (domain.Transaction, error) {
	return s.txs.Get(txID)
}

// EventSource yields input records in arrival order. Next returns io.EOF at
// end of stream. Per-record validation failures are reported with errors that
// match domain.ErrUnknownTransactionKind or domain.ErrInvalidAmount; any other
// error is a failure to read the source at all.
type EventSource interface {
	Next() (domain.Event, error)
}

// Process drains the source, applying each event in order.
//
// Rejected records are logged and skipped. Only a failure to read the source
// itself is returned, since no partial ledger can be produced without input.
func (s *Service) Process(ctx context.Context, src EventSource) error {
	l := zerolog.Ctx(ctx)

	for {
		event, err := src.Next()

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, domain.ErrUnknownTransactionKind), errors.Is(err, domain.ErrInvalidAmount):
			l.Info().Err(err).Msg("skipping malformed record")
			continue
		default:
			return err
		}

		if err := s.Apply(ctx, event); err != nil {
			l.Info().
				Err(err).
				Str("type", string(event.Kind)).
				Uint16("client", event.ClientID).
				Uint32("tx", event.TxID).
				Msg("skipping rejected record")
		}
	}
}
