package accounts

import (
	"fmt"
	"log"
)

// ExhaustedError denies a generation for lack of credits. It carries the
// remaining count so handlers can show the upgrade path.
type ExhaustedError struct {
	Remaining int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no trip credits remaining (%d left)", e.Remaining)
}

// Ledger is the entitlement ledger: it answers whether an account may
// generate, charges credits after successful generations and applies
// purchased packages.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// CheckEntitlement reports whether the account may generate one more
// itinerary. Side-effect free.
func (l *Ledger) CheckEntitlement(accountID int) (bool, Credits, error) {
	u, err := l.store.GetByID(accountID)
	if err != nil {
		return false, Credits{}, err
	}
	if u == nil {
		return false, Credits{}, ErrAccountNotFound
	}
	return u.Credits.Allows(), u.Credits, nil
}

// ConsumeCredit charges one generation. Unlimited accounts are never
// charged; finite balances decrement, floored at zero. A zero balance is
// not an error here - CheckEntitlement is expected to have gated the call,
// and the decrement itself stays defensive.
func (l *Ledger) ConsumeCredit(accountID int) (Credits, error) {
	u, err := l.store.GetByID(accountID)
	if err != nil {
		return Credits{}, err
	}
	if u == nil {
		return Credits{}, ErrAccountNotFound
	}
	if u.Credits.IsUnlimited() {
		return u.Credits, nil
	}
	remaining, err := l.store.DecrementCredits(accountID)
	if err != nil {
		return Credits{}, err
	}
	log.Printf("[ledger][consume] account=%d remaining=%s", accountID, remaining)
	return remaining, nil
}

// ApplyPackage upgrades the account after a verified purchase. Ultimate sets
// the balance to unlimited regardless of what was left (repeat purchases are
// idempotent); finite tiers stack creditsToAdd on the current balance. The
// tier is always updated.
func (l *Ledger) ApplyPackage(accountID int, tier string, creditsToAdd int) (*User, error) {
	u, err := l.store.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrAccountNotFound
	}
	var balance Credits
	if tier == PackageUltimate {
		balance = UnlimitedCredits()
	} else {
		balance = u.Credits.Add(creditsToAdd)
	}
	if err := l.store.SetPackage(accountID, tier, balance); err != nil {
		return nil, err
	}
	u.PackageType = tier
	u.Credits = balance
	log.Printf("[ledger][package] account=%d tier=%s credits=%s", accountID, tier, balance)
	return u, nil
}
