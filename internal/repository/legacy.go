package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LegacyRepository reads candidate rows from the legacy single-ledger
// schema. Strictly read-only: the migration never writes to the legacy side.
type LegacyRepository struct {
	db *pgxpool.Pool
}

// NewLegacyRepository creates a reader over the legacy pool.
func NewLegacyRepository(db *pgxpool.Pool) *LegacyRepository {
	return &LegacyRepository{db: db}
}

// nextCandidateQuery joins one legacy transaction with its collective,
// payment-method, expense, order and user context. Joined text columns are
// coalesced so absent context scans as the empty string; optional ids stay
// NULL.
const nextCandidateQuery = `
	SELECT
		t.id,
		t."FromCollectiveId",
		t."CollectiveId",
		t."HostCollectiveId",
		COALESCE(t."amountInHostCurrency", 0),
		COALESCE(t."hostCurrency", ''),
		COALESCE(t.amount, 0),
		COALESCE(t.currency, ''),
		COALESCE(t."hostFeeInHostCurrency", 0),
		COALESCE(t."platformFeeInHostCurrency", 0),
		COALESCE(t."paymentProcessorFeeInHostCurrency", 0),
		t."PaymentMethodId",
		t."ExpenseId",
		t."OrderId",
		COALESCE(f.slug, ''),
		COALESCE(c.slug, ''),
		COALESCE(h.slug, ''),
		COALESCE(p.service, ''),
		COALESCE(p.type, ''),
		pmc.id,
		COALESCE(pmc.slug, ''),
		ofc.id,
		COALESCE(ofc.slug, ''),
		COALESCE(opm.service, ''),
		COALESCE(opm.type, ''),
		opmc.id,
		COALESCE(opmc.slug, ''),
		e."UserId",
		e."CollectiveId",
		COALESCE(e."payoutMethod", ''),
		COALESCE(ec.slug, ''),
		COALESCE(eu."paypalEmail", '')
	FROM "Transactions" t
	LEFT JOIN "Collectives" f ON t."FromCollectiveId" = f.id
	LEFT JOIN "Collectives" c ON t."CollectiveId" = c.id
	LEFT JOIN "Collectives" h ON t."HostCollectiveId" = h.id
	LEFT JOIN "PaymentMethods" p ON t."PaymentMethodId" = p.id
	LEFT JOIN "Collectives" pmc ON p."CollectiveId" = pmc.id
	LEFT JOIN "Expenses" e ON t."ExpenseId" = e.id
	LEFT JOIN "Collectives" ec ON e."CollectiveId" = ec.id
	LEFT JOIN "Users" eu ON e."UserId" = eu.id
	LEFT JOIN "Orders" o ON t."OrderId" = o.id
	LEFT JOIN "Collectives" ofc ON o."FromCollectiveId" = ofc.id
	LEFT JOIN "PaymentMethods" opm ON o."PaymentMethodId" = opm.id
	LEFT JOIN "Collectives" opmc ON opm."CollectiveId" = opmc.id
	WHERE t.id < $1 AND t.type = $2 AND t."deletedAt" IS NULL
	ORDER BY t.id DESC
	LIMIT 1`

// NextCandidate returns the newest credit-type, non-deleted legacy row with
// id strictly below bound, or models.ErrNoLegacyRows when none remains.
func (r *LegacyRepository) NextCandidate(ctx context.Context, bound int64) (*models.LegacyTransaction, error) {
	row := r.db.QueryRow(ctx, nextCandidateQuery, bound, domain.LegacyTypeCredit)

	var t models.LegacyTransaction
	err := row.Scan(
		&t.ID,
		&t.FromCollectiveID,
		&t.CollectiveID,
		&t.HostCollectiveID,
		&t.AmountInHostCurrency,
		&t.HostCurrency,
		&t.Amount,
		&t.Currency,
		&t.HostFeeInHostCurrency,
		&t.PlatformFeeInHostCurrency,
		&t.PaymentProcessorFeeInHostCurrency,
		&t.PaymentMethodID,
		&t.ExpenseID,
		&t.OrderID,
		&t.FromCollectiveSlug,
		&t.CollectiveSlug,
		&t.HostCollectiveSlug,
		&t.PaymentMethodService,
		&t.PaymentMethodType,
		&t.PaymentMethodCollectiveID,
		&t.PaymentMethodCollectiveSlug,
		&t.OrderFromCollectiveID,
		&t.OrderFromCollectiveSlug,
		&t.OrderPaymentMethodService,
		&t.OrderPaymentMethodType,
		&t.OrderPaymentMethodCollectiveID,
		&t.OrderPaymentMethodCollectiveSlug,
		&t.ExpenseUserID,
		&t.ExpenseCollectiveID,
		&t.ExpensePayoutMethod,
		&t.ExpenseCollectiveSlug,
		&t.ExpenseUserPaypalEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNoLegacyRows
	}
	if err != nil {
		return nil, fmt.Errorf("fetch legacy candidate below %d: %w", bound, err)
	}
	return &t, nil
}
