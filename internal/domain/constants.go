package domain

// Legacy schema values and ledger-side defaults.
const (
	// LegacyTypeCredit is the only legacy transaction type the migration
	// consumes; every movement is recorded as a CREDIT/DEBIT pair and the
	// credit leg carries the full fee context.
	LegacyTypeCredit = "CREDIT"

	// DefaultWalletName is used when no descriptive name can be derived.
	// It labels the wallet only; identity fields stay absent.
	DefaultWalletName = "UNKNOWN"

	// Provider types.
	ProviderTypeWalletProvider  = "WALLET_PROVIDER"
	ProviderTypePaymentProvider = "PAYMENT_PROVIDER"

	// ProviderServiceHost labels providers derived from a hosting party
	// acting as fee collector.
	ProviderServiceHost = "host"
)
