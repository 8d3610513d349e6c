package models

import "errors"

// Validate checks the fields every ledger transaction must carry before it
// is persisted.
func (t *LedgerTransaction) Validate() error {
	if len(t.Currency) < 3 || len(t.Currency) > 4 {
		return errors.New("currency must be a 3-4 character code")
	}
	if t.FromWalletID <= 0 || t.ToWalletID <= 0 {
		return errors.New("source and destination wallet ids are required")
	}
	if t.FromAccountID == "" || t.ToAccountID == "" {
		return errors.New("source and destination account ids are required")
	}
	if t.LegacyTransactionID <= 0 {
		return errors.New("legacy transaction id is required")
	}
	return nil
}
