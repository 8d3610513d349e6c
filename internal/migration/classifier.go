package migration

import (
	"fmt"
	"strconv"

	"github.com/ayo6706/ledger-migration/internal/domain"
	"github.com/ayo6706/ledger-migration/internal/models"
)

// OriginKind identifies which legacy reference supplied the economic origin
// of a row. Exactly one applies per supported row.
type OriginKind int

const (
	// OriginPaymentMethod: the row carries a payment method reference.
	OriginPaymentMethod OriginKind = iota
	// OriginExpense: no payment method, but an expense reference.
	OriginExpense
	// OriginOrderPaymentMethod: no payment method or expense; the order
	// itself has a payment method.
	OriginOrderPaymentMethod
	// OriginOrderDirect: an order with no payment method of its own; the
	// order's from-collective stands in as both wallet owner and payment
	// provider.
	OriginOrderDirect
)

func (k OriginKind) String() string {
	switch k {
	case OriginPaymentMethod:
		return "payment_method"
	case OriginExpense:
		return "expense"
	case OriginOrderPaymentMethod:
		return "order_payment_method"
	case OriginOrderDirect:
		return "order_direct"
	default:
		return "unknown"
	}
}

// DestinationKind identifies how the destination side of a row is held.
type DestinationKind int

const (
	// DestinationHosted: the destination collective sits under a host party.
	DestinationHosted DestinationKind = iota
	// DestinationStandalone: the destination collective owns its own wallet.
	DestinationStandalone
)

func (k DestinationKind) String() string {
	if k == DestinationHosted {
		return "hosted"
	}
	return "standalone"
}

// Shape is the classifier's output: four wallet identities (the wallet
// provider one optional) plus the scalar ledger fields derived from one
// legacy row.
type Shape struct {
	Origin      OriginKind
	Destination DestinationKind

	LegacyTransactionID int64
	FromAccount         string
	ToAccount           string

	Amount              int64
	Currency            string
	DestinationAmount   int64
	DestinationCurrency string

	WalletProviderFee  int64
	PlatformFee        int64
	PaymentProviderFee int64

	To              models.WalletIdentity
	WalletProvider  *models.WalletIdentity
	From            models.WalletIdentity
	PaymentProvider models.WalletIdentity

	WalletProviderAccount  domain.AccountRef
	PaymentProviderAccount domain.AccountRef

	PaymentProviderService string
	PaymentProviderType    string
}

// Classify derives the shape of one joined legacy row. Rows that match none
// of the modeled patterns fail with ErrUnsupportedShape rather than produce
// a partial record. Amounts are trusted as already converted; no FX math
// happens here.
func Classify(row *models.LegacyTransaction) (*Shape, error) {
	if row.HostCurrency == "" {
		return nil, unsupported(row.ID, "missing host currency")
	}

	origin, err := originOf(row)
	if err != nil {
		return nil, err
	}

	s := &Shape{
		Origin:              origin,
		LegacyTransactionID: row.ID,
		FromAccount:         strconv.FormatInt(row.FromCollectiveID, 10),
		ToAccount:           strconv.FormatInt(row.CollectiveID, 10),
		Amount:              row.AmountInHostCurrency,
		Currency:            row.HostCurrency,
		DestinationAmount:   row.Amount,
		DestinationCurrency: row.Currency,
		WalletProviderFee:   row.HostFeeInHostCurrency,
		PlatformFee:         row.PlatformFeeInHostCurrency,
		PaymentProviderFee:  row.PaymentProcessorFeeInHostCurrency,
	}

	if err := classifyDestination(row, s); err != nil {
		return nil, err
	}
	classifySource(row, s)
	return s, nil
}

func originOf(row *models.LegacyTransaction) (OriginKind, error) {
	switch {
	case row.PaymentMethodID != nil:
		return OriginPaymentMethod, nil
	case row.ExpenseID != nil:
		return OriginExpense, nil
	case row.OrderID != nil:
		if row.OrderPaymentMethodCollectiveSlug != "" {
			return OriginOrderPaymentMethod, nil
		}
		return OriginOrderDirect, nil
	default:
		return 0, unsupported(row.ID, "no payment method, expense, or order reference")
	}
}

func classifyDestination(row *models.LegacyTransaction, s *Shape) error {
	currency := row.Currency
	to := models.WalletIdentity{
		Currency: &currency,
		Account:  domain.CollectiveAccount(row.CollectiveID),
	}

	if row.HostCollectiveID != nil {
		s.Destination = DestinationHosted
		host := domain.CollectiveAccount(*row.HostCollectiveID)
		to.Name = fmt.Sprintf("owner: %s, account: %s, %s", row.HostCollectiveSlug, row.CollectiveSlug, row.Currency)
		to.Owner = host
		if s.WalletProviderFee > 0 {
			s.WalletProviderAccount = host
			s.WalletProvider = &models.WalletIdentity{
				Name:    fmt.Sprintf("owner and account: %s, multi-currency", row.HostCollectiveSlug),
				Account: host,
				Owner:   host,
			}
		}
		s.To = to
		return nil
	}

	s.Destination = DestinationStandalone
	to.Name = fmt.Sprintf("owner: %s, account: %s, %s", row.CollectiveSlug, row.CollectiveSlug, row.Currency)
	to.Owner = domain.CollectiveAccount(row.CollectiveID)

	if s.WalletProviderFee > 0 {
		// Carried over from the legacy system: with no host on the row, the
		// fee collector identity is approximated from whichever of expense
		// or order supplied the fee context.
		switch s.Origin {
		case OriginExpense:
			ref := domain.Account(fmt.Sprintf("payment method: %s, paypal email: %s", row.ExpensePayoutMethod, row.ExpenseUserPaypalEmail))
			to.Name = fmt.Sprintf("owner: %s(through %s), account: %s, %s", row.ExpensePayoutMethod, row.ExpenseUserPaypalEmail, row.CollectiveSlug, row.Currency)
			to.Owner = ref
			s.WalletProviderAccount = ref
			s.WalletProvider = &models.WalletIdentity{
				Name:    fmt.Sprintf("owner and account: %s(through %s), multi-currency", row.ExpensePayoutMethod, row.ExpenseUserPaypalEmail),
				Account: ref,
				Owner:   ref,
			}
		case OriginOrderPaymentMethod:
			ref := domain.Account(fmt.Sprintf("%s(Order)", row.OrderPaymentMethodCollectiveSlug))
			to.Name = fmt.Sprintf("owner: %s(Order), account: %s, %s", row.OrderPaymentMethodCollectiveSlug, row.CollectiveSlug, row.Currency)
			to.Owner = ref
			s.WalletProviderAccount = ref
			s.WalletProvider = &models.WalletIdentity{
				Name:    fmt.Sprintf("owner and account: %s(Order), multi-currency", row.OrderPaymentMethodCollectiveSlug),
				Account: ref,
				Owner:   ref,
			}
		default:
			return unsupported(row.ID, "wallet provider fee without a host or an attributable expense/order")
		}
	}

	s.To = to
	return nil
}

func classifySource(row *models.LegacyTransaction, s *Shape) {
	hostCurrency := row.HostCurrency
	from := models.WalletIdentity{
		Currency:        &hostCurrency,
		Account:         domain.CollectiveAccount(row.FromCollectiveID),
		PaymentMethodID: row.PaymentMethodID,
		ExpenseID:       row.ExpenseID,
		OrderID:         row.OrderID,
	}

	switch s.Origin {
	case OriginPaymentMethod:
		from.Name = fmt.Sprintf("owner: %s, account: %s, %s", row.PaymentMethodCollectiveSlug, row.FromCollectiveSlug, row.HostCurrency)
		from.Owner = optionalCollective(row.PaymentMethodCollectiveID)
		ref := domain.Account(row.PaymentMethodService)
		s.PaymentProviderAccount = ref
		s.PaymentProviderService = row.PaymentMethodService
		s.PaymentProviderType = row.PaymentMethodType
		s.PaymentProvider = models.WalletIdentity{
			Name:            row.PaymentMethodType,
			Account:         ref,
			Owner:           ref,
			PaymentMethodID: row.PaymentMethodID,
		}

	case OriginExpense:
		from.Name = fmt.Sprintf("owner: %s, account: %s, %s", row.ExpenseCollectiveSlug, row.FromCollectiveSlug, row.HostCurrency)
		from.Owner = optionalCollective(row.ExpenseCollectiveID)
		ref := domain.Account(row.ExpensePayoutMethod)
		s.PaymentProviderAccount = ref
		s.PaymentProviderService = row.ExpensePayoutMethod
		s.PaymentProvider = models.WalletIdentity{
			Name:      fmt.Sprintf("owner and account: %s, multi-currency", row.ExpensePayoutMethod),
			Account:   ref,
			Owner:     ref,
			ExpenseID: row.ExpenseID,
		}

	case OriginOrderPaymentMethod:
		from.Name = fmt.Sprintf("owner: %s, account: %s, %s", row.OrderPaymentMethodCollectiveSlug, row.FromCollectiveSlug, row.HostCurrency)
		from.Owner = optionalCollective(row.OrderPaymentMethodCollectiveID)
		pmCollective := int64OrZero(row.OrderPaymentMethodCollectiveID)
		ref := domain.Account(fmt.Sprintf("%d_%s_%s", pmCollective, row.OrderPaymentMethodService, row.OrderPaymentMethodType))
		s.PaymentProviderAccount = ref
		s.PaymentProviderService = row.OrderPaymentMethodService
		s.PaymentProviderType = row.OrderPaymentMethodType
		s.PaymentProvider = models.WalletIdentity{
			Name:    fmt.Sprintf("account and owner:%d, service: %s, type: %s", pmCollective, row.OrderPaymentMethodService, row.OrderPaymentMethodType),
			Account: ref,
			Owner:   ref,
			OrderID: row.OrderID,
		}

	case OriginOrderDirect:
		from.Name = fmt.Sprintf("owner: %s, account: %s, %s", row.OrderFromCollectiveSlug, row.FromCollectiveSlug, row.HostCurrency)
		from.Owner = optionalCollective(row.OrderFromCollectiveID)
		ref := domain.Account(fmt.Sprintf("%d_%d", int64OrZero(row.OrderFromCollectiveID), *row.OrderID))
		s.PaymentProviderAccount = ref
		s.PaymentProvider = models.WalletIdentity{
			Name:    fmt.Sprintf("from %s(Order id %d)", row.OrderFromCollectiveSlug, *row.OrderID),
			Account: ref,
			Owner:   ref,
			OrderID: row.OrderID,
		}
	}

	s.From = from
}

func optionalCollective(id *int64) domain.AccountRef {
	if id == nil {
		return domain.NoAccount()
	}
	return domain.CollectiveAccount(*id)
}

func int64OrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
