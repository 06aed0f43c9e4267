package accounts

import (
	"strconv"
	"time"
)

// Package tiers. Free is what every account starts on; the paid tiers are
// one-time purchases that top up (or remove) the generation credit balance.
const (
	PackageFree     = "free"
	PackageBasic    = "basic"
	PackagePremium  = "premium"
	PackageUltimate = "ultimate"
)

// StarterCredits is granted to every new account at registration.
const StarterCredits = 3

// PackageCredits maps a purchasable finite tier to the credits it adds.
// Ultimate is absent on purpose: it switches the account to unlimited.
var PackageCredits = map[string]int{
	PackageBasic:   10,
	PackagePremium: 20,
}

// ValidPackage reports whether the tier can be purchased.
func ValidPackage(tier string) bool {
	if tier == PackageUltimate {
		return true
	}
	_, ok := PackageCredits[tier]
	return ok
}

// PackageName returns the display name for a tier.
func PackageName(tier string) string {
	switch tier {
	case PackageBasic:
		return "Basic Plan"
	case PackagePremium:
		return "Premium Plan"
	case PackageUltimate:
		return "Ultimate Plan"
	default:
		return "Free Plan"
	}
}

// unlimitedSentinel is how the database column encodes the unlimited state.
// It never leaks past the storage boundary; everywhere else credits are the
// tagged Credits type.
const unlimitedSentinel = -1

// Credits is a generation credit balance: either a finite count or the
// distinct unlimited state. Unlimited is not "a very large number" - finite
// arithmetic never applies to it.
type Credits struct {
	unlimited bool
	n         int
}

func FiniteCredits(n int) Credits {
	if n < 0 {
		n = 0
	}
	return Credits{n: n}
}

func UnlimitedCredits() Credits {
	return Credits{unlimited: true}
}

func (c Credits) IsUnlimited() bool { return c.unlimited }

// Remaining returns the finite count, 0 for unlimited balances.
func (c Credits) Remaining() int {
	if c.unlimited {
		return 0
	}
	return c.n
}

// Allows reports whether one more generation may run on this balance.
func (c Credits) Allows() bool {
	return c.unlimited || c.n > 0
}

// Consume returns the balance after one generation. Unlimited balances are
// untouched; finite ones decrement, floored at zero.
func (c Credits) Consume() Credits {
	if c.unlimited {
		return c
	}
	if c.n <= 0 {
		return Credits{}
	}
	return Credits{n: c.n - 1}
}

// Add returns the balance with n more finite credits. Adding to unlimited is
// a no-op.
func (c Credits) Add(n int) Credits {
	if c.unlimited {
		return c
	}
	return FiniteCredits(c.n + n)
}

func (c Credits) String() string {
	if c.unlimited {
		return "unlimited"
	}
	return strconv.Itoa(c.n)
}

// CreditsFromDB decodes the stored column value (-1 means unlimited).
func CreditsFromDB(v int) Credits {
	if v == unlimitedSentinel {
		return UnlimitedCredits()
	}
	return FiniteCredits(v)
}

// DBValue encodes the balance for storage.
func (c Credits) DBValue() int {
	if c.unlimited {
		return unlimitedSentinel
	}
	return c.n
}

// User is an account. Password holds the scrypt hash, never the plaintext.
// ProviderID/UID identify a linked external (OAuth) identity.
type User struct {
	ID               int       `json:"id"`
	Username         string    `json:"username"`
	Password         string    `json:"-"`
	Email            string    `json:"email,omitempty"`
	DisplayName      string    `json:"displayName,omitempty"`
	PhotoURL         string    `json:"photoURL,omitempty"`
	ProviderID       string    `json:"providerId,omitempty"`
	UID              string    `json:"uid,omitempty"`
	StripeCustomerID string    `json:"-"`
	PackageType      string    `json:"packageType"`
	Credits          Credits   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}
