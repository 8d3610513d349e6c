package migration

import (
	"context"
	"testing"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/ayo6706/ledger-migration/internal/testutil/memstore"
	"github.com/stretchr/testify/require"
)

func TestResolveWalletIdempotent(t *testing.T) {
	store := memstore.New()
	q := store.Queries()
	ctx := context.Background()

	currency := "USD"
	identity := models.WalletIdentity{
		Name:            "owner: host, account: webpack, USD",
		Currency:        &currency,
		Account:         domain.CollectiveAccount(20),
		Owner:           domain.CollectiveAccount(30),
		PaymentMethodID: i64(7),
	}

	first, err := ResolveWallet(ctx, q, identity)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := ResolveWallet(ctx, q, identity)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, store.Wallets(), 1)
}

func TestResolveWalletDistinctTuples(t *testing.T) {
	store := memstore.New()
	q := store.Queries()
	ctx := context.Background()

	usd, eur := "USD", "EUR"
	base := models.WalletIdentity{
		Name:    "owner: host, account: webpack, USD",
		Account: domain.CollectiveAccount(20),
		Owner:   domain.CollectiveAccount(30),
	}

	a := base
	a.Currency = &usd
	b := base
	b.Currency = &eur

	wa, err := ResolveWallet(ctx, q, a)
	require.NoError(t, err)
	wb, err := ResolveWallet(ctx, q, b)
	require.NoError(t, err)
	require.NotEqual(t, wa.ID, wb.ID)
}

func TestResolveWalletDefaultsName(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	wallet, err := ResolveWallet(ctx, store.Queries(), models.WalletIdentity{
		Account: domain.CollectiveAccount(20),
	})
	require.NoError(t, err)
	require.Equal(t, domain.DefaultWalletName, wallet.Name)
}

func TestResolveTemporaryWallet(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	wallet, err := ResolveTemporaryWallet(ctx, store.Queries(), "USD", domain.Account("acct"), domain.NoAccount())
	require.NoError(t, err)
	require.True(t, wallet.Temporary)
	require.Equal(t, "temp_USD_acct", wallet.Name)

	again, err := ResolveTemporaryWallet(ctx, store.Queries(), "USD", domain.Account("acct"), domain.NoAccount())
	require.NoError(t, err)
	require.Equal(t, wallet.ID, again.ID)
}

// racingQueries simulates a concurrent writer sneaking a wallet in between
// the lookup and the insert.
type racingQueries struct {
	models.LedgerQueries
	store  *memstore.Store
	raced  bool
}

func (r *racingQueries) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	if !r.raced {
		r.raced = true
		rival := &models.Wallet{WalletIdentity: wallet.WalletIdentity}
		if err := r.store.Queries().CreateWallet(ctx, rival); err != nil {
			return err
		}
	}
	return r.store.Queries().CreateWallet(ctx, &models.Wallet{WalletIdentity: wallet.WalletIdentity})
}

func TestResolveWalletLostCreateRace(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	currency := "USD"
	identity := models.WalletIdentity{
		Name:     "owner: host, account: webpack, USD",
		Currency: &currency,
		Account:  domain.CollectiveAccount(20),
		Owner:    domain.CollectiveAccount(30),
	}

	q := &racingQueries{LedgerQueries: store.Queries(), store: store}
	wallet, err := ResolveWallet(ctx, q, identity)
	require.NoError(t, err)

	// The rival's wallet won; resolution converged on it.
	require.Len(t, store.Wallets(), 1)
	require.Equal(t, store.Wallets()[0].ID, wallet.ID)
}
