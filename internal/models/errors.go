package models

import "errors"

var (
	// ErrWalletNotFound is returned by wallet lookups when no wallet matches
	// the identity tuple.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrWalletExists is returned by wallet creation when the identity tuple
	// is already taken. Concurrent resolvers losing the create race see this
	// and re-run the lookup.
	ErrWalletExists = errors.New("wallet identity already exists")

	// ErrAlreadyMigrated is returned when inserting a ledger transaction
	// whose legacy transaction id has already been migrated.
	ErrAlreadyMigrated = errors.New("legacy transaction already migrated")

	// ErrNoLegacyRows is returned by the legacy source when no candidate row
	// remains below the requested bound.
	ErrNoLegacyRows = errors.New("no legacy rows below bound")
)
