package accounts

import "errors"

// ErrAccountNotFound is returned by ledger operations when the account id is
// unknown. It is fatal for the request; callers surface it, never retry.
var ErrAccountNotFound = errors.New("account not found")

// Store persists accounts and their credit balances.
type Store interface {
	// GetByID returns (nil, nil) when the account does not exist.
	GetByID(id int) (*User, error)
	// GetByUsername matches case-insensitively; (nil, nil) when absent.
	GetByUsername(username string) (*User, error)
	// GetByProviderID resolves a linked external identity; (nil, nil) when absent.
	GetByProviderID(providerID, uid string) (*User, error)
	// Create assigns an id and applies new-account defaults
	// (free tier, StarterCredits).
	Create(u *User) error
	// LinkExternalIdentity attaches provider/uid (and optional profile
	// fields) to an existing account.
	LinkExternalIdentity(id int, providerID, uid, photoURL, displayName string) error
	UpdateStripeCustomerID(id int, customerID string) error
	// SetPackage overwrites tier and balance. Last write wins per account.
	SetPackage(id int, packageType string, credits Credits) error
	// DecrementCredits atomically takes one finite credit if the balance is
	// positive and returns the balance afterwards. Unlimited balances and
	// zero balances are returned unchanged.
	DecrementCredits(id int) (Credits, error)
}
