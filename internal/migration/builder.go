package migration

import (
	"context"
	"fmt"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
	"go.uber.org/zap"
)

// Builder assembles ledger transactions from classified shapes and persists
// them together with the wallets they reference.
type Builder struct {
	store models.LedgerStore
}

// NewBuilder creates a builder over the given ledger store.
func NewBuilder(store models.LedgerStore) *Builder {
	return &Builder{store: store}
}

// Build resolves the shape's wallet identities, ensures the provider
// accounts it references, and inserts the ledger transaction. The whole
// sequence is one atomic unit: either all wallets plus the transaction
// commit, or none do.
func (b *Builder) Build(ctx context.Context, shape *Shape) (*models.LedgerTransaction, error) {
	var out *models.LedgerTransaction

	err := b.store.RunInTx(ctx, func(q models.LedgerQueries) error {
		from, err := ResolveWallet(ctx, q, shape.From)
		if err != nil {
			return fmt.Errorf("resolve source wallet: %w", err)
		}
		to, err := ResolveWallet(ctx, q, shape.To)
		if err != nil {
			return fmt.Errorf("resolve destination wallet: %w", err)
		}
		paymentProvider, err := ResolveWallet(ctx, q, shape.PaymentProvider)
		if err != nil {
			return fmt.Errorf("resolve payment provider wallet: %w", err)
		}

		var walletProviderID int64
		if shape.WalletProvider != nil {
			walletProvider, err := ResolveWallet(ctx, q, *shape.WalletProvider)
			if err != nil {
				return fmt.Errorf("resolve wallet provider wallet: %w", err)
			}
			walletProviderID = walletProvider.ID
		}

		if err := ensureProviders(ctx, q, shape); err != nil {
			return err
		}

		tx := &models.LedgerTransaction{
			FromWalletID:             from.ID,
			ToWalletID:               to.ID,
			FromAccountID:            shape.FromAccount,
			ToAccountID:              shape.ToAccount,
			Amount:                   shape.Amount,
			Currency:                 shape.Currency,
			WalletProviderFee:        shape.WalletProviderFee,
			WalletProviderAccountID:  shape.WalletProviderAccount.Ptr(),
			PlatformFee:              shape.PlatformFee,
			PaymentProviderFee:       shape.PaymentProviderFee,
			PaymentProviderAccountID: shape.PaymentProviderAccount.Ptr(),
			LegacyTransactionID:      shape.LegacyTransactionID,
		}
		if shape.DestinationCurrency != "" && shape.DestinationCurrency != shape.Currency {
			tx.DestinationAmount = &shape.DestinationAmount
			tx.DestinationCurrency = &shape.DestinationCurrency
		}

		if err := tx.Validate(); err != nil {
			return fmt.Errorf("validate ledger transaction: %w", err)
		}
		if err := q.InsertTransaction(ctx, tx); err != nil {
			return fmt.Errorf("insert ledger transaction: %w", err)
		}

		zap.L().Debug("ledger transaction built",
			zap.Int64("legacy_id", shape.LegacyTransactionID),
			zap.String("amount", domain.NewMoney(shape.Amount, shape.Currency).String()),
			zap.Int64("from_wallet", from.ID),
			zap.Int64("to_wallet", to.ID),
			zap.Int64("payment_provider_wallet", paymentProvider.ID),
			zap.Int64("wallet_provider_wallet", walletProviderID),
		)
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func ensureProviders(ctx context.Context, q models.LedgerQueries, shape *Shape) error {
	if shape.PaymentProviderAccount.Valid() {
		service := shape.PaymentProviderService
		if service == "" {
			service = shape.PaymentProviderAccount.ID()
		}
		providerType := shape.PaymentProviderType
		if providerType == "" {
			providerType = domain.ProviderTypePaymentProvider
		}
		provider := &models.Provider{
			Name:           shape.PaymentProviderAccount.ID(),
			Service:        service,
			Type:           providerType,
			Fees:           domain.ZeroFees(),
			OwnerAccountID: shape.PaymentProviderAccount.ID(),
		}
		if err := q.EnsureProvider(ctx, provider); err != nil {
			return fmt.Errorf("ensure payment provider: %w", err)
		}
	}

	if shape.WalletProviderAccount.Valid() {
		provider := &models.Provider{
			Name:           shape.WalletProviderAccount.ID(),
			Service:        domain.ProviderServiceHost,
			Type:           domain.ProviderTypeWalletProvider,
			Fees:           domain.ZeroFees(),
			OwnerAccountID: shape.WalletProviderAccount.ID(),
		}
		if err := q.EnsureProvider(ctx, provider); err != nil {
			return fmt.Errorf("ensure wallet provider: %w", err)
		}
	}
	return nil
}
