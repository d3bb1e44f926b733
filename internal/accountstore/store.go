// Package accountstore manages the in-memory account state of the ledger.
package accountstore

import (
	"sort"

	"github.com/go-petr/tx-ledger/internal/domain"
)

// Store maps client ids to account state.
//
// It is owned by a single mutator for the process lifetime, so access is not
// synchronized.
type Store struct {
	accounts map[uint16]domain.Account
}

// New returns an empty account store.
func New() *Store {
	return &Store{
		accounts: make(map[uint16]domain.Account),
	}
}

// Get returns the account of the given client.
func (s *Store) Get(clientID uint16) (domain.Account, error) {
	account, ok := s.accounts[clientID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return account, nil
}

// GetOrCreate returns the account of the given client, creating a zeroed
// account on first reference.
func (s *Store) GetOrCreate(clientID uint16) domain.Account {
	account, ok := s.accounts[clientID]
	if !ok {
		account = domain.NewAccount(clientID)
	}

	return account
}

// Set stores the given account, replacing any previous state for its client.
func (s *Store) Set(account domain.Account) {
	s.accounts[account.ClientID] = account
}

// List returns all known accounts ordered by ascending client id.
func (s *Store) List() []domain.Account {
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ClientID < accounts[j].ClientID
	})

	return accounts
}
