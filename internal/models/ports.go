package models

import "context"

// LedgerQueries is the transactional slice of the ledger store. A single
// legacy row's wallet resolution and transaction insert all run against one
// LedgerQueries inside one database transaction.
type LedgerQueries interface {
	// FindWallet looks up a wallet by its full identity tuple. Absent
	// optional fields match IS NULL, not wildcards. Returns
	// ErrWalletNotFound when no wallet matches.
	FindWallet(ctx context.Context, identity WalletIdentity) (*Wallet, error)
	// CreateWallet inserts a wallet and fills in its id. Returns
	// ErrWalletExists when the identity tuple is already taken.
	CreateWallet(ctx context.Context, wallet *Wallet) error
	// EnsureProvider finds or creates a provider account keyed by
	// (service, type, owner account).
	EnsureProvider(ctx context.Context, provider *Provider) error
	// InsertTransaction inserts a ledger transaction and fills in its id.
	// Returns ErrAlreadyMigrated when the legacy transaction id is taken.
	InsertTransaction(ctx context.Context, tx *LedgerTransaction) error
}

// LedgerStore provides the ledger high-water mark and transaction scoping.
type LedgerStore interface {
	// MinLegacyTransactionID returns the smallest migrated legacy id. The
	// bool is false when the ledger holds no migrated rows yet.
	MinLegacyTransactionID(ctx context.Context) (int64, bool, error)
	// RunInTx executes fn within a database transaction.
	RunInTx(ctx context.Context, fn func(q LedgerQueries) error) error
}

// LegacySource reads candidate rows from the legacy store.
type LegacySource interface {
	// NextCandidate returns the newest credit-type, non-deleted legacy row
	// with id strictly below bound, or ErrNoLegacyRows when none remains.
	NextCandidate(ctx context.Context, bound int64) (*LegacyTransaction, error)
}
