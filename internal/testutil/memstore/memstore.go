// Package memstore is an in-memory models.LedgerStore used by unit tests.
// It enforces the same uniqueness rules as the Postgres schema: one wallet
// per identity tuple, one provider per (service, type, owner), and one
// ledger transaction per legacy transaction id.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ayo6706/ledger-migration/internal/models"
)

type Store struct {
	mu sync.Mutex

	wallets      []models.Wallet
	providers    []models.Provider
	transactions []models.LedgerTransaction

	nextWalletID      int64
	nextProviderID    int64
	nextTransactionID int64
}

func New() *Store {
	return &Store{nextWalletID: 1, nextProviderID: 1, nextTransactionID: 1}
}

func (s *Store) MinLegacyTransactionID(ctx context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.transactions) == 0 {
		return 0, false, nil
	}
	min := s.transactions[0].LegacyTransactionID
	for _, tx := range s.transactions[1:] {
		if tx.LegacyTransactionID < min {
			min = tx.LegacyTransactionID
		}
	}
	return min, true, nil
}

// RunInTx applies fn atomically: state is snapshotted first and restored
// when fn returns an error.
func (s *Store) RunInTx(ctx context.Context, fn func(q models.LedgerQueries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallets := append([]models.Wallet(nil), s.wallets...)
	providers := append([]models.Provider(nil), s.providers...)
	transactions := append([]models.LedgerTransaction(nil), s.transactions...)
	walletID, providerID, transactionID := s.nextWalletID, s.nextProviderID, s.nextTransactionID

	if err := fn(&queries{store: s}); err != nil {
		s.wallets, s.providers, s.transactions = wallets, providers, transactions
		s.nextWalletID, s.nextProviderID, s.nextTransactionID = walletID, providerID, transactionID
		return err
	}
	return nil
}

// Queries exposes the store outside a transaction, for test assertions and
// direct seeding.
func (s *Store) Queries() models.LedgerQueries {
	return &lockedQueries{store: s}
}

// Wallets returns a copy of all wallets.
func (s *Store) Wallets() []models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Wallet(nil), s.wallets...)
}

// Transactions returns a copy of all ledger transactions.
func (s *Store) Transactions() []models.LedgerTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LedgerTransaction(nil), s.transactions...)
}

// Providers returns a copy of all providers.
func (s *Store) Providers() []models.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Provider(nil), s.providers...)
}

// queries operates on a store whose mutex is already held by RunInTx.
type queries struct {
	store *Store
}

func (q *queries) FindWallet(ctx context.Context, identity models.WalletIdentity) (*models.Wallet, error) {
	return q.store.findWallet(identity)
}

func (q *queries) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	return q.store.createWallet(wallet)
}

func (q *queries) EnsureProvider(ctx context.Context, provider *models.Provider) error {
	return q.store.ensureProvider(provider)
}

func (q *queries) InsertTransaction(ctx context.Context, tx *models.LedgerTransaction) error {
	return q.store.insertTransaction(tx)
}

// lockedQueries takes the store mutex per call.
type lockedQueries struct {
	store *Store
}

func (q *lockedQueries) FindWallet(ctx context.Context, identity models.WalletIdentity) (*models.Wallet, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	return q.store.findWallet(identity)
}

func (q *lockedQueries) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	return q.store.createWallet(wallet)
}

func (q *lockedQueries) EnsureProvider(ctx context.Context, provider *models.Provider) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	return q.store.ensureProvider(provider)
}

func (q *lockedQueries) InsertTransaction(ctx context.Context, tx *models.LedgerTransaction) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	return q.store.insertTransaction(tx)
}

func (s *Store) findWallet(identity models.WalletIdentity) (*models.Wallet, error) {
	key := identityKey(identity)
	for i := range s.wallets {
		if identityKey(s.wallets[i].WalletIdentity) == key {
			w := s.wallets[i]
			return &w, nil
		}
	}
	return nil, models.ErrWalletNotFound
}

func (s *Store) createWallet(wallet *models.Wallet) error {
	key := identityKey(wallet.WalletIdentity)
	for i := range s.wallets {
		if identityKey(s.wallets[i].WalletIdentity) == key {
			return models.ErrWalletExists
		}
	}
	wallet.ID = s.nextWalletID
	s.nextWalletID++
	wallet.CreatedAt = time.Now()
	s.wallets = append(s.wallets, *wallet)
	return nil
}

func (s *Store) ensureProvider(provider *models.Provider) error {
	for i := range s.providers {
		p := s.providers[i]
		if p.Service == provider.Service && p.Type == provider.Type && p.OwnerAccountID == provider.OwnerAccountID {
			*provider = p
			return nil
		}
	}
	provider.ID = s.nextProviderID
	s.nextProviderID++
	provider.CreatedAt = time.Now()
	s.providers = append(s.providers, *provider)
	return nil
}

func (s *Store) insertTransaction(tx *models.LedgerTransaction) error {
	for i := range s.transactions {
		if s.transactions[i].LegacyTransactionID == tx.LegacyTransactionID {
			return models.ErrAlreadyMigrated
		}
	}
	tx.ID = s.nextTransactionID
	s.nextTransactionID++
	tx.CreatedAt = time.Now()
	s.transactions = append(s.transactions, *tx)
	return nil
}

// identityKey mirrors the COALESCE-based unique index on wallets: a nil
// optional matches only nil, and the name is display-only, not identity.
func identityKey(id models.WalletIdentity) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		strOrNull(id.Currency),
		strOrNull(id.Account.Ptr()),
		strOrNull(id.Owner.Ptr()),
		intOrNull(id.PaymentMethodID),
		intOrNull(id.OrderID),
		intOrNull(id.ExpenseID),
		intOrNull(id.SourcePaymentMethodID),
	)
}

func strOrNull(s *string) string {
	if s == nil {
		return "\x00"
	}
	return *s
}

func intOrNull(i *int64) string {
	if i == nil {
		return "\x00"
	}
	return fmt.Sprintf("%d", *i)
}
