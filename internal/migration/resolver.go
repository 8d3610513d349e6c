package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/ayo6706/ledger-migration/internal/observability"
)

// ResolveWallet finds or creates the wallet for the given identity tuple.
// Resolution is idempotent: the same identity always yields the same wallet.
// Lookup-then-create is not atomic against concurrent resolvers, so the
// store's uniqueness constraint is the real safety boundary; losing the
// create race is handled by re-running the lookup.
func ResolveWallet(ctx context.Context, q models.LedgerQueries, identity models.WalletIdentity) (*models.Wallet, error) {
	return resolveWallet(ctx, q, identity, false)
}

// ResolveTemporaryWallet finds or creates a placeholder wallet awaiting a
// real identity.
func ResolveTemporaryWallet(ctx context.Context, q models.LedgerQueries, currency string, account, owner domain.AccountRef) (*models.Wallet, error) {
	cur := currency
	identity := models.WalletIdentity{
		Name:     fmt.Sprintf("temp_%s_%s", currency, account.ID()),
		Currency: &cur,
		Account:  account,
		Owner:    owner,
	}
	return resolveWallet(ctx, q, identity, true)
}

func resolveWallet(ctx context.Context, q models.LedgerQueries, identity models.WalletIdentity, temporary bool) (*models.Wallet, error) {
	if identity.Name == "" {
		identity.Name = domain.DefaultWalletName
	}

	wallet, err := q.FindWallet(ctx, identity)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, models.ErrWalletNotFound) {
		return nil, fmt.Errorf("find wallet: %w", err)
	}

	created := &models.Wallet{WalletIdentity: identity, Temporary: temporary}
	err = q.CreateWallet(ctx, created)
	if err == nil {
		observability.IncrementWalletsCreated()
		return created, nil
	}
	if errors.Is(err, models.ErrWalletExists) {
		// Someone else created it between our lookup and insert.
		wallet, err = q.FindWallet(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("find wallet after lost create race: %w", err)
		}
		return wallet, nil
	}
	return nil, fmt.Errorf("create wallet: %w", err)
}
