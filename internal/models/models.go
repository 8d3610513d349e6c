package models

import (
	"time"

	"github.com/ayo6706/ledger-migration/internal/domain"
)

// LegacyTransaction is one row from the pre-migration single-ledger schema,
// joined with its collective, payment-method, expense, order and user
// context. Optional references are pointers; joined text columns are
// coalesced to the empty string by the legacy repository.
type LegacyTransaction struct {
	ID               int64
	FromCollectiveID int64
	CollectiveID     int64
	HostCollectiveID *int64

	AmountInHostCurrency int64
	HostCurrency         string
	Amount               int64
	Currency             string

	HostFeeInHostCurrency             int64
	PlatformFeeInHostCurrency         int64
	PaymentProcessorFeeInHostCurrency int64

	PaymentMethodID *int64
	ExpenseID       *int64
	OrderID         *int64

	FromCollectiveSlug string
	CollectiveSlug     string
	HostCollectiveSlug string

	PaymentMethodService       string
	PaymentMethodType          string
	PaymentMethodCollectiveID  *int64
	PaymentMethodCollectiveSlug string

	OrderFromCollectiveID          *int64
	OrderFromCollectiveSlug        string
	OrderPaymentMethodService      string
	OrderPaymentMethodType         string
	OrderPaymentMethodCollectiveID *int64
	OrderPaymentMethodCollectiveSlug string

	ExpenseUserID          *int64
	ExpenseCollectiveID    *int64
	ExpensePayoutMethod    string
	ExpenseCollectiveSlug  string
	ExpenseUserPaypalEmail string
}

// WalletIdentity is the uniqueness tuple a wallet is found or created by.
// Currency is nil for multi-currency aggregator wallets. The linkage ids
// disambiguate identity only; they never model ownership.
type WalletIdentity struct {
	Name     string
	Currency *string
	Account  domain.AccountRef
	Owner    domain.AccountRef

	PaymentMethodID       *int64
	OrderID               *int64
	ExpenseID             *int64
	SourcePaymentMethodID *int64
}

// Wallet is a sub-account on the ledger side. Created lazily on first
// reference, never deleted. Temporary marks a placeholder awaiting a real
// identity.
type Wallet struct {
	ID int64
	WalletIdentity
	Temporary bool
	CreatedAt time.Time
}

// LedgerTransaction is the new-model record of one economic event. It is
// created exactly once per legacy row and never mutated; LegacyTransactionID
// is unique and carries the resumability contract.
type LedgerTransaction struct {
	ID int64

	FromWalletID int64
	ToWalletID   int64

	FromAccountID string
	ToAccountID   string

	Amount   int64
	Currency string

	// Set only for cross-currency legs (currency != host currency).
	DestinationAmount   *int64
	DestinationCurrency *string

	WalletProviderFee       int64
	WalletProviderAccountID *string
	PlatformFee             int64
	PaymentProviderFee      int64
	PaymentProviderAccountID *string

	LegacyTransactionID int64
	CreatedAt           time.Time
}

// Provider is an account representing a payment or wallet service: a payment
// rail collecting a processing fee, or a hosting party collecting a
// platform-internal fee.
type Provider struct {
	ID             int64
	Name           string
	Service        string
	Type           string
	Fees           domain.FeeSchedule
	OwnerAccountID string
	CreatedAt      time.Time
}

// WalletBalance is a per-currency balance aggregated over a wallet's
// incoming ledger transactions.
type WalletBalance struct {
	Currency string
	Balance  int64
}
