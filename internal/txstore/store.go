// Package txstore manages the in-memory transaction ledger.
package txstore

import (
	"github.com/go-petr/tx-ledger/internal/domain"
)

// Store maps transaction ids to recorded transactions.
//
// Transactions are never deleted; they are retained for the process lifetime
// so that replays and late disputes can be validated against them.
type Store struct {
	transactions map[uint32]domain.Transaction
}

// New returns an empty transaction store.
func New() *Store {
	return &Store{
		transactions: make(map[uint32]domain.Transaction),
	}
}

// Get returns the transaction with the given id.
func (s *Store) Get(txID uint32) (domain.Transaction, error) {
	tx, ok := s.transactions[txID]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return tx, nil
}

// Insert records a new transaction. Reusing an id is rejected, never treated
// as an overwrite.
func (s *Store) Insert(tx domain.Transaction) error {
	if _, ok := s.transactions[tx.ID]; ok {
		return domain.ErrDuplicateTransaction
	}

	s.transactions[tx.ID] = tx

	return nil
}

// Update replaces the stored state of an existing transaction.
func (s *Store) Update(tx domain.Transaction) error {
	if _, ok := s.transactions[tx.ID]; !ok {
		return domain.ErrTransactionNotFound
	}

	s.transactions[tx.ID] = tx

	return nil
}
