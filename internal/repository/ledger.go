package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, name, currency, account_id, owner_account_id, payment_method_id, order_id, expense_id, source_payment_method_id, temporary, created_at`

// FindWallet looks up a wallet by its full identity tuple. Absent optional
// fields are matched as NULL, not as wildcards.
func (q *Queries) FindWallet(ctx context.Context, identity models.WalletIdentity) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE currency IS NOT DISTINCT FROM $1
		  AND account_id IS NOT DISTINCT FROM $2
		  AND owner_account_id IS NOT DISTINCT FROM $3
		  AND payment_method_id IS NOT DISTINCT FROM $4
		  AND order_id IS NOT DISTINCT FROM $5
		  AND expense_id IS NOT DISTINCT FROM $6
		  AND source_payment_method_id IS NOT DISTINCT FROM $7`
	row := q.db.QueryRow(ctx, query,
		identity.Currency,
		identity.Account.Ptr(),
		identity.Owner.Ptr(),
		identity.PaymentMethodID,
		identity.OrderID,
		identity.ExpenseID,
		identity.SourcePaymentMethodID,
	)
	wallet, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find wallet: %w", err)
	}
	return wallet, nil
}

// CreateWallet inserts a wallet and fills in its id. The identity unique
// index is the race-safety boundary for concurrent resolvers.
func (q *Queries) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	query := `INSERT INTO wallets (name, currency, account_id, owner_account_id, payment_method_id, order_id, expense_id, source_payment_method_id, temporary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at`
	err := q.db.QueryRow(ctx, query,
		wallet.Name,
		wallet.Currency,
		wallet.Account.Ptr(),
		wallet.Owner.Ptr(),
		wallet.PaymentMethodID,
		wallet.OrderID,
		wallet.ExpenseID,
		wallet.SourcePaymentMethodID,
		wallet.Temporary,
	).Scan(&wallet.ID, &wallet.CreatedAt)
	if isUniqueViolation(err) {
		return models.ErrWalletExists
	}
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

// InsertTransaction inserts one ledger transaction. The unique index on
// legacy_transaction_id enforces at most one ledger record per legacy row.
func (q *Queries) InsertTransaction(ctx context.Context, tx *models.LedgerTransaction) error {
	query := `INSERT INTO transactions (
			from_wallet_id, to_wallet_id, from_account_id, to_account_id,
			amount, currency, destination_amount, destination_currency,
			wallet_provider_fee, wallet_provider_account_id, platform_fee,
			payment_provider_fee, payment_provider_account_id,
			legacy_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING id, created_at`
	err := q.db.QueryRow(ctx, query,
		tx.FromWalletID,
		tx.ToWalletID,
		tx.FromAccountID,
		tx.ToAccountID,
		tx.Amount,
		tx.Currency,
		tx.DestinationAmount,
		tx.DestinationCurrency,
		tx.WalletProviderFee,
		tx.WalletProviderAccountID,
		tx.PlatformFee,
		tx.PaymentProviderFee,
		tx.PaymentProviderAccountID,
		tx.LegacyTransactionID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if isUniqueViolation(err) {
		return models.ErrAlreadyMigrated
	}
	if err != nil {
		return fmt.Errorf("insert ledger transaction: %w", err)
	}
	return nil
}

// EnsureProvider finds or creates a provider account keyed by
// (service, type, owner account).
func (q *Queries) EnsureProvider(ctx context.Context, provider *models.Provider) error {
	found, err := q.findProvider(ctx, provider)
	if err == nil && found {
		return nil
	}
	if err != nil {
		return err
	}

	insert := `INSERT INTO providers (name, service, type, fixed_fee, percent_fee, owner_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (service, type, owner_account_id) DO NOTHING
		RETURNING id, created_at`
	fixed, _ := provider.Fees.Fixed.Float64()
	percent, _ := provider.Fees.Percent.Float64()
	err = q.db.QueryRow(ctx, insert,
		provider.Name, provider.Service, provider.Type, fixed, percent, provider.OwnerAccountID,
	).Scan(&provider.ID, &provider.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a concurrent insert; the row exists now.
		if _, err := q.findProvider(ctx, provider); err != nil {
			return err
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	return nil
}

func (q *Queries) findProvider(ctx context.Context, provider *models.Provider) (bool, error) {
	query := `SELECT id, name, fixed_fee, percent_fee, created_at FROM providers
		WHERE service = $1 AND type = $2 AND owner_account_id = $3`
	var fixed, percent float64
	err := q.db.QueryRow(ctx, query, provider.Service, provider.Type, provider.OwnerAccountID).
		Scan(&provider.ID, &provider.Name, &fixed, &percent, &provider.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find provider: %w", err)
	}
	provider.Fees = domain.FeeSchedule{
		Fixed:   decimal.NewFromFloat(fixed),
		Percent: decimal.NewFromFloat(percent),
	}
	return true, nil
}

// MinLegacyTransactionID returns the smallest migrated legacy id; the bool
// is false when the ledger holds no migrated rows yet.
func (q *Queries) MinLegacyTransactionID(ctx context.Context) (int64, bool, error) {
	var minID *int64
	if err := q.db.QueryRow(ctx, `SELECT MIN(legacy_transaction_id) FROM transactions`).Scan(&minID); err != nil {
		return 0, false, fmt.Errorf("min legacy transaction id: %w", err)
	}
	if minID == nil {
		return 0, false, nil
	}
	return *minID, true, nil
}

// WalletBalances returns per-currency balances over a wallet's incoming
// transactions.
func (q *Queries) WalletBalances(ctx context.Context, walletID int64) ([]models.WalletBalance, error) {
	query := `SELECT currency, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE to_wallet_id = $1
		GROUP BY currency`
	rows, err := q.db.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("wallet balances: %w", err)
	}
	defer rows.Close()

	var balances []models.WalletBalance
	for rows.Next() {
		var b models.WalletBalance
		if err := rows.Scan(&b.Currency, &b.Balance); err != nil {
			return nil, fmt.Errorf("scan wallet balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// WalletCurrencyBalance returns a wallet's balance in a single currency.
func (q *Queries) WalletCurrencyBalance(ctx context.Context, currency string, walletID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE to_wallet_id = $1 AND currency = $2`
	var balance int64
	if err := q.db.QueryRow(ctx, query, walletID, currency).Scan(&balance); err != nil {
		return 0, fmt.Errorf("wallet currency balance: %w", err)
	}
	return balance, nil
}

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var w models.Wallet
	var currency, accountID, ownerID *string
	err := row.Scan(
		&w.ID, &w.Name, &currency, &accountID, &ownerID,
		&w.PaymentMethodID, &w.OrderID, &w.ExpenseID, &w.SourcePaymentMethodID,
		&w.Temporary, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Currency = currency
	w.Account = refFrom(accountID)
	w.Owner = refFrom(ownerID)
	return &w, nil
}

func refFrom(id *string) domain.AccountRef {
	if id == nil {
		return domain.NoAccount()
	}
	return domain.Account(*id)
}
