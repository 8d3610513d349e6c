package migration

import (
	"context"
	"testing"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/ayo6706/ledger-migration/internal/testutil/memstore"
	"github.com/stretchr/testify/require"
)

func TestBuildHostedRow(t *testing.T) {
	store := memstore.New()
	builder := NewBuilder(store)
	ctx := context.Background()

	shape, err := Classify(hostedCreditRow())
	require.NoError(t, err)

	tx, err := builder.Build(ctx, shape)
	require.NoError(t, err)
	require.NotZero(t, tx.ID)
	require.Equal(t, int64(42), tx.LegacyTransactionID)
	require.Equal(t, "10", tx.FromAccountID)
	require.Equal(t, "20", tx.ToAccountID)
	require.Equal(t, int64(100), tx.Amount)
	require.Equal(t, "USD", tx.Currency)
	require.Equal(t, int64(5), tx.WalletProviderFee)
	require.NotNil(t, tx.WalletProviderAccountID)
	require.Equal(t, "30", *tx.WalletProviderAccountID)
	require.NotNil(t, tx.PaymentProviderAccountID)
	require.Equal(t, "stripe", *tx.PaymentProviderAccountID)

	// Same currency on both legs, so no destination leg is persisted.
	require.Nil(t, tx.DestinationAmount)
	require.Nil(t, tx.DestinationCurrency)

	// Source, destination, payment provider, and wallet provider wallets.
	require.Len(t, store.Wallets(), 4)
	require.NotEqual(t, tx.FromWalletID, tx.ToWalletID)

	providers := store.Providers()
	require.Len(t, providers, 2)
	byType := map[string]models.Provider{}
	for _, p := range providers {
		byType[p.Type] = p
	}
	require.Equal(t, "stripe", byType["creditcard"].Service)
	require.Equal(t, domain.ProviderServiceHost, byType[domain.ProviderTypeWalletProvider].Service)
	require.Equal(t, "30", byType[domain.ProviderTypeWalletProvider].OwnerAccountID)
}

func TestBuildCrossCurrencyRow(t *testing.T) {
	store := memstore.New()
	builder := NewBuilder(store)
	ctx := context.Background()

	row := hostedCreditRow()
	row.AmountInHostCurrency = 850
	row.Amount = 1000
	row.Currency = "EUR"

	shape, err := Classify(row)
	require.NoError(t, err)

	tx, err := builder.Build(ctx, shape)
	require.NoError(t, err)
	require.Equal(t, int64(850), tx.Amount)
	require.Equal(t, "USD", tx.Currency)
	require.NotNil(t, tx.DestinationAmount)
	require.Equal(t, int64(1000), *tx.DestinationAmount)
	require.NotNil(t, tx.DestinationCurrency)
	require.Equal(t, "EUR", *tx.DestinationCurrency)
}

func TestBuildZeroFeeSkipsWalletProvider(t *testing.T) {
	store := memstore.New()
	builder := NewBuilder(store)
	ctx := context.Background()

	row := hostedCreditRow()
	row.HostFeeInHostCurrency = 0

	shape, err := Classify(row)
	require.NoError(t, err)

	tx, err := builder.Build(ctx, shape)
	require.NoError(t, err)
	require.Nil(t, tx.WalletProviderAccountID)
	require.Len(t, store.Wallets(), 3)
	require.Len(t, store.Providers(), 1)
}

func TestBuildExactlyOncePerLegacyRow(t *testing.T) {
	store := memstore.New()
	builder := NewBuilder(store)
	ctx := context.Background()

	shape, err := Classify(hostedCreditRow())
	require.NoError(t, err)

	_, err = builder.Build(ctx, shape)
	require.NoError(t, err)

	_, err = builder.Build(ctx, shape)
	require.ErrorIs(t, err, models.ErrAlreadyMigrated)
	require.Len(t, store.Transactions(), 1)
}

func TestBuildRollsBackWalletsOnInsertFailure(t *testing.T) {
	store := memstore.New()
	builder := NewBuilder(store)
	ctx := context.Background()

	// Occupy the legacy id so the final insert fails after the wallets
	// were resolved inside the same transaction.
	require.NoError(t, store.Queries().InsertTransaction(ctx, &models.LedgerTransaction{
		FromWalletID:        99,
		ToWalletID:          98,
		LegacyTransactionID: 42,
	}))

	shape, err := Classify(hostedCreditRow())
	require.NoError(t, err)

	_, err = builder.Build(ctx, shape)
	require.ErrorIs(t, err, models.ErrAlreadyMigrated)
	require.Empty(t, store.Wallets())
	require.Len(t, store.Transactions(), 1)
}

func TestBuildReusesWalletsAcrossRows(t *testing.T) {
	store := memstore.New()
	builder := NewBuilder(store)
	ctx := context.Background()

	first, err := Classify(hostedCreditRow())
	require.NoError(t, err)
	firstTx, err := builder.Build(ctx, first)
	require.NoError(t, err)

	row := hostedCreditRow()
	row.ID = 41
	second, err := Classify(row)
	require.NoError(t, err)
	secondTx, err := builder.Build(ctx, second)
	require.NoError(t, err)

	require.Equal(t, firstTx.FromWalletID, secondTx.FromWalletID)
	require.Equal(t, firstTx.ToWalletID, secondTx.ToWalletID)
	require.Len(t, store.Wallets(), 4)
	require.Len(t, store.Providers(), 2)
}
