package domain

import "strconv"

// AccountRef optionally identifies an account on the ledger side. Account ids
// are strings because the migration derives some of them from legacy context
// (a payout method plus a PayPal email, an order's payment-method collective)
// rather than from a numeric collective id. A legacy row can also reference a
// party that has no resolvable account at all; that is an absent ref, a
// first-class state rather than a placeholder string.
type AccountRef struct {
	id    string
	valid bool
}

// Account returns a ref for a derived string identifier. An empty id yields
// an absent ref.
func Account(id string) AccountRef {
	if id == "" {
		return AccountRef{}
	}
	return AccountRef{id: id, valid: true}
}

// CollectiveAccount returns a ref for a numeric legacy collective id.
func CollectiveAccount(id int64) AccountRef {
	return AccountRef{id: strconv.FormatInt(id, 10), valid: true}
}

// NoAccount returns an absent ref.
func NoAccount() AccountRef {
	return AccountRef{}
}

// Valid reports whether the ref identifies an account.
func (r AccountRef) Valid() bool {
	return r.valid
}

// ID returns the account identifier, or the empty string when absent.
func (r AccountRef) ID() string {
	return r.id
}

// Ptr returns the identifier as a nullable SQL parameter: nil when absent.
func (r AccountRef) Ptr() *string {
	if !r.valid {
		return nil
	}
	id := r.id
	return &id
}

func (r AccountRef) String() string {
	if !r.valid {
		return "<none>"
	}
	return r.id
}
