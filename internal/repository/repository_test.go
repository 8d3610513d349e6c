package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ayo6706/ledger-migration/internal/db"
	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/ayo6706/ledger-migration/internal/schema"
	"github.com/ayo6706/ledger-migration/internal/testutil/dblock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load("../../.env") // Load from root
}

func TestMain(m *testing.M) {
	release := dblock.Acquire()
	code := m.Run()
	release()
	os.Exit(code)
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("LEDGER_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test: LEDGER_DATABASE_URL not set")
	}
	if err := schema.Migrate(url); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	pool, err := db.Connect(context.Background(), url)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// testIdentity builds a unique wallet identity per test run so reruns
// against a persistent database don't collide.
func testIdentity(currency string) models.WalletIdentity {
	suffix := uuid.NewString()[:8]
	cur := currency
	return models.WalletIdentity{
		Name:     "owner: host-" + suffix + ", account: collective-" + suffix + ", " + currency,
		Currency: &cur,
		Account:  domain.Account("acct-" + suffix),
		Owner:    domain.Account("owner-" + suffix),
	}
}

func TestWalletFindCreateRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	queries := New(pool)
	ctx := context.Background()

	identity := testIdentity("USD")

	_, err := queries.FindWallet(ctx, identity)
	if !errors.Is(err, models.ErrWalletNotFound) {
		t.Fatalf("Expected ErrWalletNotFound, got %v", err)
	}

	wallet := &models.Wallet{WalletIdentity: identity}
	if err := queries.CreateWallet(ctx, wallet); err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	if wallet.ID == 0 {
		t.Fatal("Expected wallet id to be filled in")
	}

	found, err := queries.FindWallet(ctx, identity)
	if err != nil {
		t.Fatalf("FindWallet failed: %v", err)
	}
	if found.ID != wallet.ID {
		t.Errorf("Expected wallet id %d, got %d", wallet.ID, found.ID)
	}

	dup := &models.Wallet{WalletIdentity: identity}
	if err := queries.CreateWallet(ctx, dup); !errors.Is(err, models.ErrWalletExists) {
		t.Fatalf("Expected ErrWalletExists, got %v", err)
	}
}

func TestWalletIdentityNullsMatchExactly(t *testing.T) {
	pool := setupTestDB(t)
	queries := New(pool)
	ctx := context.Background()

	identity := testIdentity("USD")
	wallet := &models.Wallet{WalletIdentity: identity}
	if err := queries.CreateWallet(ctx, wallet); err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	// Same tuple plus a linkage id is a different wallet.
	pm := int64(7)
	withLinkage := identity
	withLinkage.PaymentMethodID = &pm
	if _, err := queries.FindWallet(ctx, withLinkage); !errors.Is(err, models.ErrWalletNotFound) {
		t.Fatalf("Expected ErrWalletNotFound for different linkage, got %v", err)
	}

	other := &models.Wallet{WalletIdentity: withLinkage}
	if err := queries.CreateWallet(ctx, other); err != nil {
		t.Fatalf("CreateWallet with linkage failed: %v", err)
	}
	if other.ID == wallet.ID {
		t.Error("Expected distinct wallets for distinct identity tuples")
	}
}

func TestTransactionInsertAndHighWaterMark(t *testing.T) {
	pool := setupTestDB(t)
	store := NewStore(pool)
	queries := store.Queries()
	ctx := context.Background()

	identity := testIdentity("USD")
	from := &models.Wallet{WalletIdentity: identity}
	if err := queries.CreateWallet(ctx, from); err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	to := &models.Wallet{WalletIdentity: testIdentity("USD")}
	if err := queries.CreateWallet(ctx, to); err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	// Negative legacy ids keep test rows clear of real migration data.
	legacyID := -time.Now().UnixNano()
	tx := &models.LedgerTransaction{
		FromWalletID:        from.ID,
		ToWalletID:          to.ID,
		FromAccountID:       from.Account.ID(),
		ToAccountID:         to.Account.ID(),
		Amount:              100,
		Currency:            "USD",
		LegacyTransactionID: legacyID,
	}
	if err := queries.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}
	if tx.ID == 0 {
		t.Fatal("Expected transaction id to be filled in")
	}

	dup := *tx
	dup.ID = 0
	if err := queries.InsertTransaction(ctx, &dup); !errors.Is(err, models.ErrAlreadyMigrated) {
		t.Fatalf("Expected ErrAlreadyMigrated, got %v", err)
	}

	min, ok, err := store.MinLegacyTransactionID(ctx)
	if err != nil {
		t.Fatalf("MinLegacyTransactionID failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a high-water mark after insert")
	}
	if min > legacyID {
		t.Errorf("Expected high-water mark <= %d, got %d", legacyID, min)
	}

	balances, err := queries.WalletBalances(ctx, to.ID)
	if err != nil {
		t.Fatalf("WalletBalances failed: %v", err)
	}
	var usd int64
	for _, b := range balances {
		if b.Currency == "USD" {
			usd = b.Balance
		}
	}
	if usd != 100 {
		t.Errorf("Expected USD balance 100, got %d", usd)
	}
}

func TestEnsureProviderIdempotent(t *testing.T) {
	pool := setupTestDB(t)
	queries := New(pool)
	ctx := context.Background()

	owner := "owner-" + uuid.NewString()[:8]
	provider := &models.Provider{
		Name:           owner,
		Service:        "stripe",
		Type:           domain.ProviderTypePaymentProvider,
		Fees:           domain.ZeroFees(),
		OwnerAccountID: owner,
	}
	if err := queries.EnsureProvider(ctx, provider); err != nil {
		t.Fatalf("EnsureProvider failed: %v", err)
	}
	if provider.ID == 0 {
		t.Fatal("Expected provider id to be filled in")
	}

	again := &models.Provider{
		Name:           owner,
		Service:        "stripe",
		Type:           domain.ProviderTypePaymentProvider,
		Fees:           domain.ZeroFees(),
		OwnerAccountID: owner,
	}
	if err := queries.EnsureProvider(ctx, again); err != nil {
		t.Fatalf("EnsureProvider (second) failed: %v", err)
	}
	if again.ID != provider.ID {
		t.Errorf("Expected provider id %d, got %d", provider.ID, again.ID)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	pool := setupTestDB(t)
	store := NewStore(pool)
	ctx := context.Background()

	identity := testIdentity("USD")
	sentinel := errors.New("abort")

	err := store.RunInTx(ctx, func(q models.LedgerQueries) error {
		if err := q.CreateWallet(ctx, &models.Wallet{WalletIdentity: identity}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Expected sentinel error, got %v", err)
	}

	if _, err := store.Queries().FindWallet(ctx, identity); !errors.Is(err, models.ErrWalletNotFound) {
		t.Fatalf("Expected wallet to be rolled back, got %v", err)
	}
}
